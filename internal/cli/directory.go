package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/fieldreport/internal/wire"
)

// ClientCmd returns the client command
func ClientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Manage clients and their report addresses",
	}

	var email string
	add := &cobra.Command{
		Use:   "add [name]",
		Short: "Register a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.DirectoryAdapter().AddClient(NewContext(), args[0], email)
		},
	}
	add.Flags().StringVarP(&email, "email", "e", "", "Address reports are emailed to")

	cmd.AddCommand(add)
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.DirectoryAdapter().ListClients(NewContext())
			return err
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a client and all of its users",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.DirectoryAdapter().DeleteClient(NewContext(), args[0])
		},
	})

	return cmd
}

// TechnicianCmd returns the technician command
func TechnicianCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "technician",
		Short: "Manage technicians",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add [name]",
		Short: "Register a technician",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.DirectoryAdapter().AddTechnician(NewContext(), args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List technicians",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.DirectoryAdapter().ListTechnicians(NewContext())
			return err
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a technician (past visits keep the name)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.DirectoryAdapter().DeleteTechnician(NewContext(), args[0])
		},
	})

	return cmd
}

// UserCmd returns the user command
func UserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage the site users of a client",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add [client] [name]",
		Short: "Register a site user under a client",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.DirectoryAdapter().AddUser(NewContext(), args[1], args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list [client]",
		Short: "List the site users of a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.DirectoryAdapter().ListUsers(NewContext(), args[0])
			return err
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete [client] [name]",
		Short: "Remove a site user from a client",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.DirectoryAdapter().DeleteUser(NewContext(), args[1], args[0])
		},
	})

	return cmd
}
