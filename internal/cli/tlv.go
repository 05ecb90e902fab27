package cli

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/assetlink-labs/assetlink/internal/tlv"
	"github.com/spf13/cobra"
)

func init() {
	tlvCmd.AddCommand(tlvDecodeCmd)
	rootCmd.AddCommand(tlvCmd)
}

var tlvCmd = &cobra.Command{
	Use:   "tlv",
	Short: "Work with the binary TLV wire format",
}

var tlvDecodeCmd = &cobra.Command{
	Use:   "decode <hex>",
	Short: "Dump the records of a hex-encoded TLV stream",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cleaned := strings.Map(func(r rune) rune {
			if r == ' ' || r == '\n' || r == '\t' {
				return -1
			}
			return r
		}, args[0])
		buf, err := hex.DecodeString(cleaned)
		if err != nil {
			return fmt.Errorf("decoding hex input: %w", err)
		}
		return dumpRecords(buf, 0)
	},
}

// dumpRecords prints one line per record, recursing into object-instance
// records.
func dumpRecords(buf []byte, depth int) error {
	indent := strings.Repeat("  ", depth)
	off := 0
	for off < len(buf) {
		kind, id, length, n, err := tlv.ReadHeader(buf[off:])
		if err != nil {
			return fmt.Errorf("at offset %d: %w", off, err)
		}
		off += n
		if off+length > len(buf) {
			return fmt.Errorf("at offset %d: value truncated", off)
		}
		value := buf[off : off+length]
		off += length

		switch kind {
		case tlv.KindObjectInstance:
			fmt.Printf("%sinstance %d (%d bytes)\n", indent, id, length)
			if err := dumpRecords(value, depth+1); err != nil {
				return err
			}
		case tlv.KindResource:
			fmt.Printf("%sresource %d = %s\n", indent, id, hex.EncodeToString(value))
		default:
			return fmt.Errorf("at offset %d: unsupported record kind %#02x", off-n-length, kind)
		}
	}
	return nil
}
