// ABOUTME: Listing management commands
// ABOUTME: List, show, create, edit, status transitions and image upload for the user's listings

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/anuncia/anuncia-cli/internal/client"
	"github.com/anuncia/anuncia-cli/internal/tui/recentfiles"
	"github.com/anuncia/anuncia-cli/internal/validation"
	"github.com/spf13/cobra"
)

var (
	listingName        string
	listingDescription string
	listingPrice       float64
	listingCondition   string
	listingCategory    string
	listingCharacts    map[string]string
)

var listingsCmd = &cobra.Command{
	Use:     "listings",
	Aliases: []string{"anuncios"},
	Short:   "Manage your product listings",
}

var listingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your listings",
	Run: func(cmd *cobra.Command, args []string) {
		runCommand(func(ctx context.Context, a *app, w io.Writer) int {
			return runListingsList(ctx, a, w)
		})
	},
}

var listingsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a listing",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runCommand(func(ctx context.Context, a *app, w io.Writer) int {
			return runListingShow(ctx, a, w, args[0])
		})
	},
}

var listingsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Publish a new listing",
	Long: `Publish a new listing.

Conditions: NOVO, USADO
Categories: CELULAR_TELEFONIA, ELETRODOMESTICOS, CASA_DECORACAO_UTENSILIOS, MODA`,
	Run: func(cmd *cobra.Command, args []string) {
		input := &client.CreateListingRequest{
			Name:            strings.TrimSpace(listingName),
			Description:     strings.TrimSpace(listingDescription),
			Condition:       client.Condition(strings.ToUpper(listingCondition)),
			Price:           listingPrice,
			Category:        client.Category(strings.ToUpper(listingCategory)),
			Characteristics: characteristics(listingCharacts),
		}
		runCommand(func(ctx context.Context, a *app, w io.Writer) int {
			return runListingCreate(ctx, a, w, input)
		})
	},
}

var listingsEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a listing",
	Long:  `Edit a listing. Only the flags that are given are sent. Status changes use "sold" and "deactivate".`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		input := &client.UpdateListingRequest{
			Name:            strings.TrimSpace(listingName),
			Description:     strings.TrimSpace(listingDescription),
			Condition:       client.Condition(strings.ToUpper(listingCondition)),
			Category:        client.Category(strings.ToUpper(listingCategory)),
			Characteristics: characteristics(listingCharacts),
		}
		if cmd.Flags().Changed("preco") {
			input.Price = &listingPrice
		}
		runCommand(func(ctx context.Context, a *app, w io.Writer) int {
			return runListingEdit(ctx, a, w, args[0], input)
		})
	},
}

var listingsSoldCmd = &cobra.Command{
	Use:   "sold <id>",
	Short: "Mark an active listing as sold",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runCommand(func(ctx context.Context, a *app, w io.Writer) int {
			return runListingTransition(ctx, a, w, args[0], client.StatusSold)
		})
	},
}

var listingsDeactivateCmd = &cobra.Command{
	Use:   "deactivate <id>",
	Short: "Deactivate an active listing",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runCommand(func(ctx context.Context, a *app, w io.Writer) int {
			return runListingTransition(ctx, a, w, args[0], client.StatusInactive)
		})
	},
}

var listingsImageCmd = &cobra.Command{
	Use:   "image <id> <file>",
	Short: "Upload the listing image",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runCommand(func(ctx context.Context, a *app, w io.Writer) int {
			return runListingImage(ctx, a, w, args[0], args[1])
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{listingsCreateCmd, listingsEditCmd} {
		c.Flags().StringVar(&listingName, "nome", "", "Title")
		c.Flags().StringVar(&listingDescription, "descricao", "", "Description")
		c.Flags().Float64Var(&listingPrice, "preco", 0, "Price in BRL")
		c.Flags().StringVar(&listingCondition, "condicao", "", "Condition: NOVO or USADO")
		c.Flags().StringVar(&listingCategory, "categoria", "", "Category")
		c.Flags().StringToStringVar(&listingCharacts, "carac", nil, "Characteristic as key=value (repeatable)")
	}

	listingsCmd.AddCommand(
		listingsListCmd,
		listingsShowCmd,
		listingsCreateCmd,
		listingsEditCmd,
		listingsSoldCmd,
		listingsDeactivateCmd,
		listingsImageCmd,
	)
	rootCmd.AddCommand(listingsCmd)
}

func characteristics(in map[string]string) map[string]any {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// parseListingID parses a positional listing id.
func parseListingID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(raw, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, validation.Errors{{Message: fmt.Sprintf("ID de anúncio inválido: %q.", raw)}}
	}
	return id, nil
}

func runListingsList(ctx context.Context, a *app, w io.Writer) int {
	if !requireSession(a, w) {
		return exitUsage
	}
	userID, err := currentUserID(ctx, a)
	if err != nil {
		return reportError(w, err)
	}

	listings, err := a.client.ListUserListings(ctx, userID)
	if err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		printJSON(w, listings)
		return exitOK
	}
	fmt.Fprintln(w, formatListingsHuman(listings))
	return exitOK
}

func runListingShow(ctx context.Context, a *app, w io.Writer, rawID string) int {
	if !requireSession(a, w) {
		return exitUsage
	}
	id, err := parseListingID(rawID)
	if err != nil {
		return reportError(w, err)
	}

	listing, err := a.client.GetListing(ctx, id)
	if err != nil {
		return reportError(w, err)
	}
	printListing(w, listing)
	return exitOK
}

func runListingCreate(ctx context.Context, a *app, w io.Writer, input *client.CreateListingRequest) int {
	if !requireSession(a, w) {
		return exitUsage
	}
	if err := validation.Struct(input); err != nil {
		return reportError(w, err)
	}
	userID, err := currentUserID(ctx, a)
	if err != nil {
		return reportError(w, err)
	}

	listing, err := a.client.CreateListing(ctx, userID, input)
	if err != nil {
		return reportError(w, err)
	}
	if !IsJSONOutput() {
		fmt.Fprintf(w, "Anúncio #%d publicado.\n", listing.ID)
	}
	printListing(w, listing)
	return exitOK
}

func runListingEdit(ctx context.Context, a *app, w io.Writer, rawID string, input *client.UpdateListingRequest) int {
	if !requireSession(a, w) {
		return exitUsage
	}
	id, err := parseListingID(rawID)
	if err != nil {
		return reportError(w, err)
	}
	if err := validation.Struct(input); err != nil {
		return reportError(w, err)
	}

	listing, err := a.client.UpdateListing(ctx, id, input)
	if err != nil {
		return reportError(w, err)
	}
	if !IsJSONOutput() {
		fmt.Fprintf(w, "Anúncio #%d atualizado.\n", listing.ID)
	}
	printListing(w, listing)
	return exitOK
}

// runListingTransition moves an active listing to target. The current
// status is read first so sold or inactive listings are never sent.
func runListingTransition(ctx context.Context, a *app, w io.Writer, rawID string, target client.Status) int {
	if !requireSession(a, w) {
		return exitUsage
	}
	id, err := parseListingID(rawID)
	if err != nil {
		return reportError(w, err)
	}

	current, err := a.client.GetListing(ctx, id)
	if err != nil {
		return reportError(w, err)
	}
	if !current.Status.CanTransitionTo(target) {
		return reportError(w, validation.Errors{{Message: client.TransitionBlockedMessage(id, current.Status)}})
	}

	var listing *client.Listing
	if target == client.StatusSold {
		listing, err = a.client.MarkListingSold(ctx, id)
	} else {
		listing, err = a.client.DeactivateListing(ctx, id)
	}
	if err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		printJSON(w, listing)
		return exitOK
	}
	fmt.Fprintf(w, "Anúncio #%d agora está %s.\n", listing.ID, strings.ToLower(listing.Status.Label()))
	return exitOK
}

func runListingImage(ctx context.Context, a *app, w io.Writer, rawID, path string) int {
	if !requireSession(a, w) {
		return exitUsage
	}
	id, err := parseListingID(rawID)
	if err != nil {
		return reportError(w, err)
	}
	if !client.IsImagePath(path) {
		return reportError(w, validation.Errors{{Message: "Formato de imagem não suportado. Use JPG, PNG ou WEBP."}})
	}

	f, err := os.Open(path)
	if err != nil {
		return reportError(w, validation.Errors{{Message: fmt.Sprintf("Não foi possível abrir %s.", path)}})
	}
	defer f.Close()

	resp, err := a.client.UploadListingImage(ctx, id, filepath.Base(path), f)
	if err != nil {
		return reportError(w, err)
	}
	rememberImage(a, path)

	if IsJSONOutput() {
		printJSON(w, resp)
		return exitOK
	}
	fmt.Fprintf(w, "Imagem enviada: %s\n", resp.Image)
	return exitOK
}

// rememberImage offers path in the TUI image picker next time.
func rememberImage(a *app, path string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if err := recentfiles.New(a.cfg.ConfigDir).Add(path); err != nil {
		slog.Debug("could not record recent image", "error", err)
	}
}

func printListing(w io.Writer, l *client.Listing) {
	if IsJSONOutput() {
		printJSON(w, l)
		return
	}
	fmt.Fprintln(w, formatListingHuman(l))
}

// formatListingHuman formats a single listing for human readability
func formatListingHuman(l *client.Listing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Anúncio:    #%d %s\n", l.ID, l.Name)
	fmt.Fprintf(&b, "Status:     %s\n", l.Status.Label())
	fmt.Fprintf(&b, "Preço:      %s\n", client.FormatPrice(l.Price))
	fmt.Fprintf(&b, "Condição:   %s\n", l.Condition.Label())
	fmt.Fprintf(&b, "Categoria:  %s\n", l.Category.Label())
	if l.PublishedAt != "" {
		fmt.Fprintf(&b, "Publicado:  %s\n", l.PublishedAt)
	}
	if l.Image != "" {
		fmt.Fprintf(&b, "Imagem:     %s\n", l.Image)
	}
	if l.Description != "" {
		fmt.Fprintf(&b, "Descrição:  %s\n", l.Description)
	}
	for _, k := range sortedKeys(l.Characteristics) {
		fmt.Fprintf(&b, "  %s: %v\n", k, l.Characteristics[k])
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatListingsHuman formats listings as a fixed-width table
func formatListingsHuman(listings []client.Listing) string {
	if len(listings) == 0 {
		return "Você ainda não tem anúncios."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-6s %-30s %-10s %14s  %s\n", "ID", "NOME", "STATUS", "PREÇO", "CATEGORIA")
	for _, l := range listings {
		fmt.Fprintf(&b, "%-6d %-30s %-10s %14s  %s\n",
			l.ID, truncate(l.Name, 30), l.Status, client.FormatPrice(l.Price), l.Category.Label())
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatListingSummary counts listings per status.
func formatListingSummary(listings []client.Listing) string {
	counts := client.CountByStatus(listings)
	return fmt.Sprintf("Anúncios:  %d ativos, %d vendidos, %d inativos",
		counts[client.StatusActive], counts[client.StatusSold], counts[client.StatusInactive])
}

func sortedKeys(m map[string]any) []string {
	return slices.Sorted(maps.Keys(m))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
