// ABOUTME: Profile commands for the logged-in user
// ABOUTME: Shows and updates the profile and keeps the cached session snapshot in sync

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/anuncia/anuncia-cli/internal/client"
	"github.com/anuncia/anuncia-cli/internal/validation"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	profileWithListings bool
	profileUpdate       client.UpdateUserRequest
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update your profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile",
	Run: func(cmd *cobra.Command, args []string) {
		runCommand(func(ctx context.Context, a *app, w io.Writer) int {
			return runProfileShow(ctx, a, w, profileWithListings)
		})
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update name, phone or CEP",
	Long:  `Update profile fields. Only the flags that are given are sent; other fields are left untouched.`,
	Run: func(cmd *cobra.Command, args []string) {
		runCommand(func(ctx context.Context, a *app, w io.Writer) int {
			return runProfileUpdate(ctx, a, w, profileUpdate)
		})
	},
}

func init() {
	profileShowCmd.Flags().BoolVar(&profileWithListings, "with-listings", false, "Also show a summary of your listings")
	profileUpdateCmd.Flags().StringVar(&profileUpdate.Name, "nome", "", "New name")
	profileUpdateCmd.Flags().StringVar(&profileUpdate.Phone, "telefone", "", "New phone")
	profileUpdateCmd.Flags().StringVar(&profileUpdate.CEP, "cep", "", "New CEP")

	profileCmd.AddCommand(profileShowCmd, profileUpdateCmd)
	rootCmd.AddCommand(profileCmd)
}

// profileOutput is the JSON shape of profile show.
type profileOutput struct {
	User     *client.User     `json:"user"`
	Listings []client.Listing `json:"listings,omitempty"`
}

// runProfileShow fetches the profile and, when asked, the user's listings.
// Both requests run in parallel when the user id is already cached.
func runProfileShow(ctx context.Context, a *app, w io.Writer, withListings bool) int {
	if !requireSession(a, w) {
		return exitUsage
	}

	var cachedID int64
	if p := a.store.Read(); p != nil {
		cachedID = p.ID
	}

	var (
		user     *client.User
		listings []client.Listing
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := a.client.GetCurrentUser(gctx)
		user = u
		return err
	})
	if withListings && cachedID != 0 {
		g.Go(func() error {
			l, err := a.client.ListUserListings(gctx, cachedID)
			listings = l
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return reportError(w, err)
	}
	a.store.UpdateProfile(user.Snapshot())

	if withListings && cachedID == 0 {
		l, err := a.client.ListUserListings(ctx, user.ID)
		if err != nil {
			return reportError(w, err)
		}
		listings = l
	}

	if IsJSONOutput() {
		printJSON(w, profileOutput{User: user, Listings: listings})
		return exitOK
	}

	fmt.Fprintln(w, formatProfileHuman(user))
	if withListings {
		fmt.Fprintln(w)
		fmt.Fprintln(w, formatListingSummary(listings))
	}
	return exitOK
}

func runProfileUpdate(ctx context.Context, a *app, w io.Writer, input client.UpdateUserRequest) int {
	if !requireSession(a, w) {
		return exitUsage
	}
	if strings.TrimSpace(input.Name+input.Phone+input.CEP) == "" {
		return reportError(w, validation.Errors{{Message: "Informe ao menos um campo para atualizar (--nome, --telefone ou --cep)."}})
	}
	if err := validation.Struct(input); err != nil {
		return reportError(w, err)
	}

	user, err := a.client.UpdateCurrentUser(ctx, input)
	if err != nil {
		return reportError(w, err)
	}
	a.store.UpdateProfile(user.Snapshot())

	if IsJSONOutput() {
		printJSON(w, profileOutput{User: user})
		return exitOK
	}
	fmt.Fprintln(w, "Perfil atualizado.")
	fmt.Fprintln(w, formatProfileHuman(user))
	return exitOK
}

// formatProfileHuman formats a profile for human readability
func formatProfileHuman(u *client.User) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Nome:      %s\n", u.Name)
	fmt.Fprintf(&b, "E-mail:    %s\n", u.Email)
	fmt.Fprintf(&b, "Telefone:  %s\n", orDash(u.Phone))
	fmt.Fprintf(&b, "CPF/CNPJ:  %s\n", orDash(u.CPFCNPJ))
	fmt.Fprintf(&b, "Endereço:  %s", orDash(u.Address()))
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
