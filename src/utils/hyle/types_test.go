package hyle

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBytesJSON(t *testing.T) {
	buf, err := json.Marshal(Blob{ContractName: "c", Data: BlobData{0, 7, 255}})
	require.Nil(t, err)
	require.Equal(t, `{"contract_name":"c","data":[0,7,255]}`, string(buf))

	var blob Blob
	require.Nil(t, json.Unmarshal(buf, &blob))
	require.Equal(t, BlobData{0, 7, 255}, blob.Data)

	buf, err = json.Marshal(HyleOutput{})
	require.Nil(t, err)
	require.Contains(t, string(buf), `"initial_state":[]`)
}

func TestBytesOutOfRange(t *testing.T) {
	var data Bytes
	require.ErrorIs(t, json.Unmarshal([]byte(`[1,256]`), &data), ErrByteOutOfRange)
	require.NotNil(t, json.Unmarshal([]byte(`"AQI="`), &data))
}

func TestFlattenBlobs(t *testing.T) {
	out := FlattenBlobs([]Blob{
		{ContractName: "a", Data: BlobData("ab")},
		{ContractName: "b", Data: BlobData{}},
		{ContractName: "c", Data: BlobData("c")},
	})
	require.Equal(t, Bytes("abc"), out)
	require.Empty(t, FlattenBlobs(nil))
}

func TestHex(t *testing.T) {
	out, err := HexToBytes("0x0aFF")
	require.Nil(t, err)
	require.Equal(t, []byte{0x0a, 0xff}, out)
	require.Equal(t, "0aff", BytesToHex(out))

	_, err = HexToBytes("abc")
	require.ErrorIs(t, err, ErrOddHexLength)

	_, err = HexToBytes("zz")
	require.ErrorIs(t, err, ErrInvalidHex)
}

func TestNewRegisterContractTransaction(t *testing.T) {
	_, err := NewRegisterContractTransaction("", string(make64('0')), "", "")
	require.ErrorIs(t, err, ErrMissingContract)

	_, err = NewRegisterContractTransaction("c", string(make64('g')), "", "")
	require.ErrorIs(t, err, ErrInvalidProgramId)

	tx, err := NewRegisterContractTransaction("c", string(make64('1')), "owner", "risc0")
	require.Nil(t, err)
	require.Equal(t, "owner", tx.Owner)
	require.Equal(t, Verifier("risc0"), tx.Verifier)
	require.Equal(t, byte(0x11), tx.ProgramId[0])
}
