package prover

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// EncodeFrame serialises a Proof into the portable frame
// fixes: batch_id:u32_le | timestamp:u64_le | n:u32_le |
// {input_len:u32_le|input_bytes}·n | proof_len:u32_le | proof_bytes.
func EncodeFrame(p *Proof) []byte {
	var buf bytes.Buffer

	var u32 [4]byte
	var u64 [8]byte

	binary.LittleEndian.PutUint32(u32[:], p.BatchID)
	buf.Write(u32[:])

	binary.LittleEndian.PutUint64(u64[:], p.Timestamp)
	buf.Write(u64[:])

	binary.LittleEndian.PutUint32(u32[:], uint32(len(p.PublicInputs)))
	buf.Write(u32[:])

	for _, input := range p.PublicInputs {
		binary.LittleEndian.PutUint32(u32[:], uint32(len(input)))
		buf.Write(u32[:])
		buf.Write(input)
	}

	binary.LittleEndian.PutUint32(u32[:], uint32(len(p.ProofBytes)))
	buf.Write(u32[:])
	buf.Write(p.ProofBytes)

	return buf.Bytes()
}

// DecodeFrame is EncodeFrame's inverse. It is lossless: re-encoding the
// result reproduces the original bytes exactly.
func DecodeFrame(data []byte) (*Proof, error) {
	r := bytes.NewReader(data)

	var batchID uint32
	if err := binary.Read(r, binary.LittleEndian, &batchID); err != nil {
		return nil, fmt.Errorf("decode frame: read batch_id: %w", err)
	}

	var timestamp uint64
	if err := binary.Read(r, binary.LittleEndian, &timestamp); err != nil {
		return nil, fmt.Errorf("decode frame: read timestamp: %w", err)
	}

	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, fmt.Errorf("decode frame: read input count: %w", err)
	}

	inputs := make([][]byte, n)

	for i := uint32(0); i < n; i++ {
		var inputLen uint32
		if err := binary.Read(r, binary.LittleEndian, &inputLen); err != nil {
			return nil, fmt.Errorf("decode frame: read input %d length: %w", i, err)
		}

		input := make([]byte, inputLen)
		if _, err := r.Read(input); err != nil {
			return nil, fmt.Errorf("decode frame: read input %d bytes: %w", i, err)
		}

		inputs[i] = input
	}

	var proofLen uint32
	if err := binary.Read(r, binary.LittleEndian, &proofLen); err != nil {
		return nil, fmt.Errorf("decode frame: read proof length: %w", err)
	}

	proofBytes := make([]byte, proofLen)
	if _, err := r.Read(proofBytes); err != nil {
		return nil, fmt.Errorf("decode frame: read proof bytes: %w", err)
	}

	return &Proof{
		BatchID:      batchID,
		Timestamp:    timestamp,
		PublicInputs: inputs,
		ProofBytes:   proofBytes,
	}, nil
}
