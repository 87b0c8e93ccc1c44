package gsrctl

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Input encodings accepted by ReadInput.
const (
	InputRaw    = "raw"
	InputHex    = "hex"
	InputBase64 = "base64"
)

// ReadInput reads path, or stdin when path is "-" or empty, and decodes it per encoding.
func ReadInput(path, encoding string, stdin io.Reader) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	switch encoding {
	case "", InputRaw:
		return data, nil
	case InputHex:
		decoded, err := hex.DecodeString(string(bytes.TrimSpace(data)))
		if err != nil {
			return nil, fmt.Errorf("invalid hex input: %w", err)
		}
		return decoded, nil
	case InputBase64:
		decoded, err := base64.StdEncoding.DecodeString(string(bytes.TrimSpace(data)))
		if err != nil {
			return nil, fmt.Errorf("invalid base64 input: %w", err)
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("unknown input encoding %q, expected %s, %s or %s", encoding, InputRaw, InputHex, InputBase64)
	}
}
