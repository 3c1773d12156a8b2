// internal/app/collab/codec/codec.go
package codec

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/collabware/collabhub/internal/domain/models"
	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
)

// Encoded folder documents are a small framed envelope:
//
//	4 bytes  magic "CHFD"
//	1 byte   format version
//	1 byte   compression (0 = none, 1 = zstd)
//	rest     CBOR payload (folderDoc)
//
// The envelope is versioned so the stored bytes can outlive the payload
// schema; unknown versions fail decoding rather than guessing.

const (
	formatVersion = 1

	compressionNone = 0
	compressionZstd = 1
)

var magic = [4]byte{'C', 'H', 'F', 'D'}

var (
	ErrBadMagic           = errors.New("not an encoded folder document")
	ErrUnsupportedVersion = errors.New("unsupported folder document version")
	ErrTruncated          = errors.New("encoded folder document is truncated")
)

// folderDoc is the CBOR payload schema. Integer keys keep the encoding
// compact and stable across field renames.
type folderDoc struct {
	WorkspaceID string      `cbor:"1,keyasint"`
	Root        *folderNode `cbor:"2,keyasint,omitempty"`
}

type folderNode struct {
	ID       string        `cbor:"1,keyasint"`
	Name     string        `cbor:"2,keyasint,omitempty"`
	Kind     string        `cbor:"3,keyasint,omitempty"`
	Children []*folderNode `cbor:"4,keyasint,omitempty"`
}

// Codec encodes and decodes folder documents. It is safe for concurrent
// use; the zstd coders are created once and reused.
type Codec struct {
	enc     cbor.EncMode
	dec     cbor.DecMode
	zstdEnc *zstd.Encoder
	zstdDec *zstd.Decoder
}

// New builds a Codec with deterministic encoding options and bounded
// decode limits, so a hostile payload cannot balloon memory through
// nesting or huge arrays.
func New() (*Codec, error) {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("cbor enc mode: %w", err)
	}
	decOpts := cbor.DecOptions{
		MaxNestedLevels:  64,
		MaxArrayElements: 1 << 20,
		MaxMapPairs:      1 << 20,
	}
	decMode, err := decOpts.DecMode()
	if err != nil {
		return nil, fmt.Errorf("cbor dec mode: %w", err)
	}
	zenc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	zdec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(64<<20))
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	return &Codec{enc: encMode, dec: decMode, zstdEnc: zenc, zstdDec: zdec}, nil
}

// DecodeFolder materializes doc into a folder tree. The uid and origin
// identify who the decode runs for; snapshot decoding needs no replica
// identity, so they are recorded only in diagnostics. Updates are full
// snapshots applied over the base state in order: the last one wins.
// The decoded document must belong to workspaceID.
func (c *Codec) DecodeFolder(uid int64, origin models.Origin, doc models.EncodedDocument, workspaceID string, updates [][]byte) (*models.Folder, error) {
	if doc.CollabType != models.CollabTypeFolder {
		return nil, fmt.Errorf("collab type %q is not a folder", doc.CollabType)
	}

	state := doc.DocState
	for _, u := range updates {
		if len(u) > 0 {
			state = u
		}
	}

	payload, err := c.decodeEnvelope(state)
	if err != nil {
		return nil, fmt.Errorf("object %s (origin %s, uid %d): %w", doc.ObjectID, origin, uid, err)
	}

	var fd folderDoc
	if err := c.dec.Unmarshal(payload, &fd); err != nil {
		return nil, fmt.Errorf("object %s: decode payload: %w", doc.ObjectID, err)
	}
	if fd.WorkspaceID != workspaceID {
		return nil, fmt.Errorf("object %s: document belongs to workspace %s, not %s", doc.ObjectID, fd.WorkspaceID, workspaceID)
	}

	return &models.Folder{
		WorkspaceID: fd.WorkspaceID,
		Root:        toModel(fd.Root),
	}, nil
}

// EncodeFolder produces the framed envelope for a folder tree. Used by
// the ingest path and test fixtures.
func (c *Codec) EncodeFolder(folder *models.Folder, compress bool) ([]byte, error) {
	payload, err := c.enc.Marshal(folderDoc{
		WorkspaceID: folder.WorkspaceID,
		Root:        fromModel(folder.Root),
	})
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	compression := byte(compressionNone)
	if compress {
		compression = compressionZstd
		payload = c.zstdEnc.EncodeAll(payload, nil)
	}

	out := make([]byte, 0, len(magic)+2+len(payload))
	out = append(out, magic[:]...)
	out = append(out, formatVersion, compression)
	return append(out, payload...), nil
}

func (c *Codec) decodeEnvelope(state []byte) ([]byte, error) {
	if len(state) < len(magic)+2 {
		return nil, ErrTruncated
	}
	if !bytes.Equal(state[:len(magic)], magic[:]) {
		return nil, ErrBadMagic
	}
	version, compression := state[len(magic)], state[len(magic)+1]
	if version != formatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	payload := state[len(magic)+2:]
	switch compression {
	case compressionNone:
		return payload, nil
	case compressionZstd:
		out, err := c.zstdDec.DecodeAll(payload, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress payload: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown compression %d", compression)
	}
}

func toModel(n *folderNode) *models.FolderNode {
	if n == nil {
		return nil
	}
	out := &models.FolderNode{ID: n.ID, Name: n.Name, Kind: models.ViewKind(n.Kind)}
	for _, child := range n.Children {
		out.Children = append(out.Children, toModel(child))
	}
	return out
}

func fromModel(n *models.FolderNode) *folderNode {
	if n == nil {
		return nil
	}
	out := &folderNode{ID: n.ID, Name: n.Name, Kind: string(n.Kind)}
	for _, child := range n.Children {
		out.Children = append(out.Children, fromModel(child))
	}
	return out
}
