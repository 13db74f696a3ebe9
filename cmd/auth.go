// ABOUTME: Authentication commands: login, logout, register and verify
// ABOUTME: Successful login or registration starts a session in the configured store

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/anuncia/anuncia-cli/internal/client"
	"github.com/anuncia/anuncia-cli/internal/session"
	"github.com/anuncia/anuncia-cli/internal/validation"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string

	registerInput client.RegisterVendorRequest
	registerMEI   bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and start a session",
	Long:  `Log in with e-mail and password. The password is prompted for when --password is omitted.`,
	Run: func(cmd *cobra.Command, args []string) {
		if loginPassword == "" {
			if err := promptSecret("Senha", &loginPassword); err != nil {
				fmt.Fprintf(os.Stderr, "Erro: %v\n", err)
				os.Exit(exitUsage)
			}
		}
		runCommand(func(ctx context.Context, a *app, w io.Writer) int {
			return runLogin(ctx, a, w, loginEmail, loginPassword)
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	Run: func(cmd *cobra.Command, args []string) {
		runCommand(func(_ context.Context, a *app, w io.Writer) int {
			return runLogout(a, w)
		})
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new seller account",
	Long: `Register a new seller account. On success a session is started and a
verification code is sent to the e-mail address.`,
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("mei") {
			registerInput.IsMEI = &registerMEI
		}
		if registerInput.Password == "" {
			if err := promptSecret("Senha", &registerInput.Password); err != nil {
				fmt.Fprintf(os.Stderr, "Erro: %v\n", err)
				os.Exit(exitUsage)
			}
		}
		runCommand(func(ctx context.Context, a *app, w io.Writer) int {
			return runRegister(ctx, a, w, &registerInput)
		})
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify <code>",
	Short: "Activate an account with the e-mailed verification code",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runCommand(func(ctx context.Context, a *app, w io.Writer) int {
			return runVerify(ctx, a, w, args[0])
		})
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account e-mail")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password")

	f := registerCmd.Flags()
	f.StringVar(&registerInput.Name, "nome", "", "Full name or company name")
	f.StringVar(&registerInput.Email, "email", "", "E-mail")
	f.StringVar(&registerInput.Password, "senha", "", "Password")
	f.StringVar(&registerInput.CPFCNPJ, "cpf-cnpj", "", "CPF or CNPJ")
	f.StringVar(&registerInput.Phone, "telefone", "", "Phone")
	f.StringVar(&registerInput.BirthDate, "nascimento", "", "Birth date (dd/mm/aaaa)")
	f.StringVar(&registerInput.CEP, "cep", "", "CEP")
	f.StringVar(&registerInput.Street, "logradouro", "", "Street")
	f.StringVar(&registerInput.Number, "numero", "", "Street number")
	f.StringVar(&registerInput.City, "cidade", "", "City")
	f.StringVar(&registerInput.State, "uf", "", "State (two letters)")
	f.StringVar(&registerInput.District, "bairro", "", "District")
	f.StringVar(&registerInput.Complement, "complemento", "", "Address complement")
	f.BoolVar(&registerMEI, "mei", false, "Registered as MEI")

	rootCmd.AddCommand(loginCmd, logoutCmd, registerCmd, verifyCmd)
}

// promptSecret asks for a hidden value on the terminal.
func promptSecret(title string, value *string) error {
	return huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(value).
		Run()
}

// sessionOutput is the JSON shape printed after a session starts.
type sessionOutput struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// runLogin authenticates, saves the session and refreshes the cached
// profile. The refresh is best-effort.
func runLogin(ctx context.Context, a *app, w io.Writer, email, password string) int {
	input := client.LoginRequest{Email: email, Password: password}
	if err := validation.Struct(input); err != nil {
		return reportError(w, err)
	}

	auth, err := a.client.Login(ctx, email, password)
	if err != nil {
		return reportError(w, err)
	}

	if !a.store.Save(auth.Token, session.Profile{Name: auth.DisplayName, Email: email}) {
		return reportError(w, errSessionNotSaved)
	}
	if user, err := a.client.GetCurrentUser(ctx); err == nil {
		a.store.UpdateProfile(user.Snapshot())
	} else {
		slog.Debug("profile refresh after login failed", "error", err)
	}

	profile := a.store.Read()
	if profile == nil {
		profile = &session.Profile{Name: auth.DisplayName, Email: email}
	}
	expiresAt, _ := a.store.ExpiresAt()

	if IsJSONOutput() {
		printJSON(w, sessionOutput{Name: profile.Name, Email: profile.Email, ExpiresAt: expiresAt})
	} else {
		fmt.Fprintf(w, "Bem-vindo, %s!\n", displayName(profile))
	}
	return exitOK
}

func runLogout(a *app, w io.Writer) int {
	if !a.store.Clear() {
		return reportError(w, errSessionNotCleared)
	}
	if IsJSONOutput() {
		printJSON(w, map[string]bool{"logged_out": true})
	} else {
		fmt.Fprintln(w, "Sessão encerrada.")
	}
	return exitOK
}

func runRegister(ctx context.Context, a *app, w io.Writer, input *client.RegisterVendorRequest) int {
	if err := validation.Struct(input); err != nil {
		code := reportError(w, err)
		printPasswordRulesOnFailure(w, input.Password)
		return code
	}

	auth, err := a.client.RegisterVendor(ctx, input)
	if err != nil {
		return reportError(w, err)
	}

	started := false
	if auth.Token != "" {
		name := auth.DisplayName
		if name == "" {
			name = input.Name
		}
		started = a.store.Save(auth.Token, session.Profile{
			Name:  name,
			Email: input.Email,
			Phone: input.Phone,
			City:  input.City,
			State: input.State,
		})
	}

	if IsJSONOutput() {
		printJSON(w, map[string]any{"registered": true, "email": input.Email, "session_started": started})
		return exitOK
	}
	fmt.Fprintf(w, "Cadastro realizado! Enviamos um código de verificação para %s.\n", input.Email)
	if started {
		fmt.Fprintln(w, "Sessão iniciada.")
	}
	return exitOK
}

func runVerify(ctx context.Context, a *app, w io.Writer, code string) int {
	if err := validation.Var(code, "required"); err != nil {
		return reportError(w, err)
	}

	msg, err := a.client.VerifyEmail(ctx, code)
	if err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		printJSON(w, msg)
	} else {
		fmt.Fprintln(w, msg.Message)
	}
	return exitOK
}

func displayName(p *session.Profile) string {
	if p.Name != "" {
		return p.Name
	}
	return p.Email
}
