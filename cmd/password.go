// ABOUTME: Password recovery commands
// ABOUTME: Requests a reset e-mail and completes a reset with the e-mailed token

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/anuncia/anuncia-cli/internal/client"
	"github.com/anuncia/anuncia-cli/internal/validation"
	"github.com/spf13/cobra"
)

const (
	msgResetRequested = "Se o e-mail estiver cadastrado, você receberá as instruções para redefinir sua senha."
	msgResetDone      = "Senha redefinida com sucesso. Faça login com a nova senha."
)

var (
	forgotEmail   string
	resetToken    string
	resetPassword string
)

var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Recover a forgotten password",
}

var passwordForgotCmd = &cobra.Command{
	Use:   "forgot",
	Short: "Send a password reset e-mail",
	Run: func(cmd *cobra.Command, args []string) {
		runCommand(func(ctx context.Context, a *app, w io.Writer) int {
			return runForgotPassword(ctx, a, w, forgotEmail)
		})
	},
}

var passwordResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Set a new password using the e-mailed token",
	Run: func(cmd *cobra.Command, args []string) {
		if resetPassword == "" {
			if err := promptSecret("Nova senha", &resetPassword); err != nil {
				fmt.Fprintf(os.Stderr, "Erro: %v\n", err)
				os.Exit(exitUsage)
			}
		}
		runCommand(func(ctx context.Context, a *app, w io.Writer) int {
			return runResetPassword(ctx, a, w, resetToken, resetPassword)
		})
	},
}

func init() {
	passwordForgotCmd.Flags().StringVar(&forgotEmail, "email", "", "Account e-mail")
	passwordResetCmd.Flags().StringVar(&resetToken, "token", "", "Reset token from the e-mail")
	passwordResetCmd.Flags().StringVar(&resetPassword, "password", "", "New password")

	passwordCmd.AddCommand(passwordForgotCmd, passwordResetCmd)
	rootCmd.AddCommand(passwordCmd)
}

func runForgotPassword(ctx context.Context, a *app, w io.Writer, email string) int {
	if err := validation.Var(email, "required,email"); err != nil {
		return reportError(w, err)
	}

	msg, err := a.client.RequestPasswordReset(ctx, email)
	if err != nil {
		return reportError(w, err)
	}
	if msg == "" {
		msg = msgResetRequested
	}

	printMessage(w, msg)
	return exitOK
}

func runResetPassword(ctx context.Context, a *app, w io.Writer, token, password string) int {
	input := client.ResetPasswordRequest{Token: token, NewPassword: password}
	if err := validation.Struct(input); err != nil {
		code := reportError(w, err)
		printPasswordRulesOnFailure(w, password)
		return code
	}

	msg, err := a.client.ResetPassword(ctx, token, password)
	if err != nil {
		return reportError(w, err)
	}
	if msg == "" {
		msg = msgResetDone
	}

	printMessage(w, msg)
	return exitOK
}

func printMessage(w io.Writer, msg string) {
	if IsJSONOutput() {
		printJSON(w, client.MessageResponse{Message: msg})
		return
	}
	fmt.Fprintln(w, msg)
}

// printPasswordRulesOnFailure prints the password checklist when the
// password is what failed. Nothing is printed in JSON mode.
func printPasswordRulesOnFailure(w io.Writer, password string) {
	rules := validation.CheckPassword(password)
	if rules.Valid() || IsJSONOutput() {
		return
	}
	fmt.Fprintln(w, "Requisitos da senha:")
	for _, r := range rules.Checklist() {
		mark := "✗"
		if r.OK {
			mark = "✓"
		}
		fmt.Fprintf(w, "  %s %s\n", mark, r.Label)
	}
}
