package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/ledger/internal/shape"
)

type update = shape.Update

// stringField is the update wrapper for a required string flag: absent unless
// the flag was given.
func stringField(cmd *cobra.Command, name string) shape.Data[update, string] {
	if !cmd.Flags().Changed(name) {
		return shape.DataFrom[update](shape.Absent[string]())
	}
	v, _ := cmd.Flags().GetString(name)
	return shape.DataOf[update](v)
}

// nullableStringField is the update wrapper for a nullable string flag. The
// matching --clear-<name> flag sends null.
func nullableStringField(cmd *cobra.Command, name string) shape.Data[update, *string] {
	if clear, _ := cmd.Flags().GetBool("clear-" + name); clear {
		return shape.DataNull[update, *string]()
	}
	if !cmd.Flags().Changed(name) {
		return shape.DataFrom[update](shape.Absent[*string]())
	}
	v, _ := cmd.Flags().GetString(name)
	return shape.DataOf[update](&v)
}

// nullableIntField is nullableStringField for integer flags.
func nullableIntField(cmd *cobra.Command, name string) shape.Data[update, *int] {
	if clear, _ := cmd.Flags().GetBool("clear-" + name); clear {
		return shape.DataNull[update, *int]()
	}
	if !cmd.Flags().Changed(name) {
		return shape.DataFrom[update](shape.Absent[*int]())
	}
	v, _ := cmd.Flags().GetInt(name)
	return shape.DataOf[update](&v)
}

// addClearFlag registers --clear-<name> and makes it exclusive with --<name>.
func addClearFlag(cmd *cobra.Command, name, usage string) {
	cmd.Flags().Bool("clear-"+name, false, usage)
	cmd.MarkFlagsMutuallyExclusive(name, "clear-"+name)
}

// optionalInt returns the flag value, or nil if it was not given.
func optionalInt(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetInt(name)
	return &v
}

// addFileFlag registers --file for commands that accept a JSON payload.
func addFileFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "F", "", "Read a JSON payload from a file (- for stdin)")
}

// readPayload returns the --file payload. ok is false when the flag is unset.
func readPayload(cmd *cobra.Command) (payload []byte, ok bool, err error) {
	path, _ := cmd.Flags().GetString("file")
	if path == "" {
		return nil, false, nil
	}

	if path == "-" {
		payload, err = io.ReadAll(cmd.InOrStdin())
	} else {
		payload, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, true, fmt.Errorf("failed to read payload: %w", err)
	}
	return payload, true, nil
}

// rejectFieldFlags fails when --file is combined with any of the named
// field flags.
func rejectFieldFlags(cmd *cobra.Command, names ...string) error {
	for _, name := range names {
		if cmd.Flags().Changed(name) {
			return fmt.Errorf("--%s cannot be combined with --file", name)
		}
	}
	return nil
}
