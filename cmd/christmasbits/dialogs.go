package main

import (
	"fmt"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"chosenoffset.com/christmasbits/internal/dialog"
)

// NewDialogsCmd creates the dialogs command group.
func NewDialogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dialogs",
		Short: "Work with dialog script files",
	}
	cmd.AddCommand(newDialogsSchemaCmd())
	cmd.AddCommand(newDialogsValidateCmd())
	return cmd
}

func newDialogsSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for dialog script files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := dialog.GenerateSchema()
			if err != nil {
				return oops.Code("SCHEMA_GENERATE_FAILED").Wrap(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newDialogsValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a dialog script file",
		Long: `Validate a YAML or JSON dialog script file against the schema and
report how many scripts it defines.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := dialog.LoadLibrary(args[0])
			if err != nil {
				return err
			}
			cmd.Printf("%s: ok, %d scripts\n", args[0], lib.Len())
			return nil
		},
	}
}
