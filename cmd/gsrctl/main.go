// Package main provides gsrctl, a CLI for inspecting AWS Glue Schema Registry data.
//
// Usage:
//
//	gsrctl inspect --file message.bin
//	gsrctl decode --topic users --encoding hex < message.hex
//	gsrctl fetch 6f1d4a0e-...
//	gsrctl register --topic users --schema user.avsc
//
// Registry settings are read from --config (or CONFIG_FILE), the environment and flags, in
// increasing order of precedence. AWS credentials come from the default AWS chain.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Sokol111/glue-schema-registry/internal/gsrctl"
	"github.com/Sokol111/glue-schema-registry/pkg/serde/schema"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &gsrctl.Config{}

	rootCmd := &cobra.Command{
		Use:           "gsrctl",
		Short:         "Inspect and decode AWS Glue Schema Registry data",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.ConfigFile, "config", "c", os.Getenv("CONFIG_FILE"), "Configuration file")
	rootCmd.PersistentFlags().StringVar(&flags.DotEnvFile, "env-file", "", "Load environment variables from this .env file")
	rootCmd.PersistentFlags().StringVarP(&flags.RegistryName, "registry", "r", "", "Registry name (overrides configuration)")
	rootCmd.PersistentFlags().StringVar(&flags.Region, "region", "", "AWS region (overrides configuration)")
	rootCmd.PersistentFlags().StringVar(&flags.Endpoint, "endpoint", "", "Glue endpoint URL, e.g. a local emulator")
	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging to stderr")

	rootCmd.AddCommand(
		newInspectCmd(),
		newDecodeCmd(flags),
		newFetchCmd(flags),
		newRegisterCmd(flags),
	)

	return rootCmd
}

type inputFlags struct {
	file     string
	encoding string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "-", "Input file, - for stdin")
	cmd.Flags().StringVarP(&f.encoding, "encoding", "e", gsrctl.InputRaw, "Input encoding: raw, hex or base64")
}

func newInspectCmd() *cobra.Command {
	input := &inputFlags{}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the envelope header of an encoded message",
		Long: `Print the envelope header of an encoded message without contacting the registry.

Example:
  gsrctl inspect --file message.bin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := gsrctl.ReadInput(input.file, input.encoding, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return gsrctl.Inspect(cmd.OutOrStdout(), data)
		},
	}

	input.register(cmd)
	return cmd
}

func newDecodeCmd(flags *gsrctl.Config) *cobra.Command {
	input := &inputFlags{}
	var topic string

	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode an encoded message using the writer schema from the registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := gsrctl.ReadInput(input.file, input.encoding, cmd.InOrStdin())
			if err != nil {
				return err
			}

			env, err := gsrctl.NewEnv(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer env.Close() //nolint:errcheck // best effort flush

			return gsrctl.Decode(cmd.Context(), cmd.OutOrStdout(), env.Deserializer, topic, data)
		},
	}

	input.register(cmd)
	cmd.Flags().StringVarP(&topic, "topic", "t", "", "Topic the message was read from")
	return cmd
}

func newFetchCmd(flags *gsrctl.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <schema-version-id>",
		Short: "Print a schema version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := gsrctl.NewEnv(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer env.Close() //nolint:errcheck // best effort flush

			return gsrctl.Fetch(cmd.Context(), cmd.OutOrStdout(), env.Client, args[0])
		},
	}
}

func newRegisterCmd(flags *gsrctl.Config) *cobra.Command {
	req := gsrctl.RegisterRequest{}
	var dataFormat string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Resolve a schema file to its version id",
		Long: `Resolve a schema file to its version id, named by the configured naming strategy.

The schema is created or a new version registered only when auto-register is enabled
(schema-registry.auto-register or SCHEMA_REGISTRY_AUTO_REGISTER=true).

Example:
  gsrctl register --topic users --schema user.avsc`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req.DataFormat = schema.DataFormat(strings.ToUpper(dataFormat))

			env, err := gsrctl.NewEnv(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer env.Close() //nolint:errcheck // best effort flush

			return gsrctl.Register(cmd.Context(), cmd.OutOrStdout(), env.Serializer, req)
		},
	}

	cmd.Flags().StringVarP(&req.Topic, "topic", "t", "", "Topic the schema is used on (required)")
	cmd.Flags().StringVarP(&req.SchemaFile, "schema", "s", "", "Schema definition file (required)")
	cmd.Flags().BoolVar(&req.IsKey, "key", false, "Resolve the key schema instead of the value schema")
	cmd.Flags().StringVar(&dataFormat, "format", string(schema.DataFormatAvro), "Schema data format: AVRO or JSON")

	_ = cmd.MarkFlagRequired("topic")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}
