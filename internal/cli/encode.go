package cli

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/trebuchet-org/lspdeploy/internal/cli/render"
	"github.com/trebuchet-org/lspdeploy/internal/usecase"
)

// NewEncodeCmd creates the encode command
func NewEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode <type:value>...",
		Short: "Pack values like abi.encodePacked and hash them",
		Long: `Concatenate values the way Solidity's abi.encodePacked does and print the bytes
with their Keccak-256 hash.

Supported types are bool, address, uintN, bytesN, bytes32 and bytes.`,
		Example: `  lspdeploy encode bool:true address:0xcafe...cafe bytes32:0x01
  lspdeploy encode uint16:258 bytes:0xdeadbeef`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.EncodePackedParams{
				Types:  make([]string, 0, len(args)),
				Values: make([]string, 0, len(args)),
			}
			for _, arg := range args {
				typ, value, ok := strings.Cut(arg, ":")
				if !ok {
					return fmt.Errorf("invalid argument %q, expected type:value", arg)
				}
				params.Types = append(params.Types, typ)
				params.Values = append(params.Values, value)
			}

			result, err := app.EncodePacked.Run(cmd.Context(), params)
			if err != nil {
				return err
			}
			stopProgress(app)

			if app.Config.JSON {
				return render.JSON(cmd.OutOrStdout(), map[string]any{
					"encoded": hexutil.Bytes(result.Encoded),
					"hash":    result.Hash,
				})
			}
			return render.NewSaltRenderer(cmd.OutOrStdout()).RenderEncoded(result)
		},
	}

	return cmd
}
