package hyle

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Decodes hex string, 0x prefix is optional
func HexToBytes(in string) (out []byte, err error) {
	in = strings.TrimPrefix(in, "0x")
	if len(in)%2 != 0 {
		err = ErrOddHexLength
		return
	}

	out, err = hex.DecodeString(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrInvalidHex, err.Error())
		return
	}
	return
}

func BytesToHex(in []byte) string {
	return hex.EncodeToString(in)
}
