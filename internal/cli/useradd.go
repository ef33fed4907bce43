package cli

import (
	"context"
	"fmt"

	"github.com/juju/errors"
	"github.com/spf13/cobra"

	"github.com/UkralStul/sportalk/internal/domain"
	"github.com/UkralStul/sportalk/internal/service"
)

// UserAddOptions holds flags for the useradd command.
type UserAddOptions struct {
	*RootOptions
	Nickname string
	Email    string
	Password string
	Role     string
}

// NewUserAddCommand creates the useradd command.
func NewUserAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UserAddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "useradd",
		Short: "Provision a user account",
		Long: `Create a user. The password is stored as a bcrypt hash.

Example:
  sportalk useradd --nickname striker --email striker@example.com --password s3cret-pass --role INFLUENCER`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserAdd(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Nickname, "nickname", "", "unique nickname (required)")
	cmd.Flags().StringVar(&opts.Email, "email", "", "unique email (required)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "password, at least 8 characters (required)")
	cmd.Flags().StringVar(&opts.Role, "role", string(domain.RoleUser), "USER, INFLUENCER or ADMIN")
	_ = cmd.MarkFlagRequired("nickname")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func runUserAdd(cmd *cobra.Command, opts *UserAddOptions) error {
	e, err := opts.setup(cmd)
	if err != nil {
		return errors.Trace(err)
	}
	defer e.close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if e.cfg.Database.AutoMigrate {
		if err := e.migrate(ctx); err != nil {
			return errors.Trace(err)
		}
	}

	user, err := e.services(nil).Users.Register(ctx, service.RegisterInput{
		Nickname: opts.Nickname,
		Email:    opts.Email,
		Password: opts.Password,
		Role:     domain.Role(opts.Role),
	})
	if err != nil {
		return errors.Trace(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", user.ID, user.Nickname, user.Role)
	return nil
}
