package batch

import (
	"github.com/sqgui/sqgui/engine/core"
	"github.com/sqgui/sqgui/engine/geom"
)

// Vertex layout: pos2 + color4 + uv2 => 8 floats. Batches are keyed by a
// single texture, so no per-vertex texture index is needed.
const (
	VStride      = 8
	VertsPerQuad = 4
	IndsPerQuad  = 6
)

type BlendMode int

const (
	BlendNone BlendMode = iota // opaque, no blending
	BlendAlpha
	BlendAdditive
	BlendMultiply
)

type FilterMode int

const (
	FilterNearest FilterMode = iota
	FilterLinear
)

// Material is the non-texture half of a draw key.
type Material struct {
	Blend  BlendMode
	Filter FilterMode
}

// Opaque reports whether batches with this material belong to the opaque
// queue. Opaque batches draw before translucent ones.
func (m Material) Opaque() bool { return m.Blend == BlendNone }

// Key identifies which batch a primitive lands in: one texture plus one
// material. A nil Texture means the solid-color white texture.
type Key struct {
	Texture  core.Texture
	Material Material
}

// UVRect addresses a sub-rectangle of a texture in normalized coordinates.
type UVRect struct {
	U0, V0, U1, V1 float32
}

// FullUV covers the whole texture.
var FullUV = UVRect{0, 0, 1, 1}

// Batch is an ordered run of quads sharing one draw key. Primitives keep
// their insertion order inside the batch so translucent overlaps blend
// correctly.
type Batch struct {
	Key       Key
	Verts     []float32
	Inds      []uint32
	QuadCount int
	Bounds    geom.Rect // union of primitive rects, used for damage checks
}

// Submitter consumes an ordered sequence of batches. The GL backend is the
// real implementation; tests use in-memory fakes. Submission reports only
// success or failure and feeds nothing back into the scene.
type Submitter interface {
	Submit(batches []*Batch) error
}

// Statistics captures the counts generated during a batcher frame.
type Statistics struct {
	Batches   int // batches emitted by EndFrame
	Rebuilt   int // batches regenerated this frame
	Retained  int // batches reused verbatim from the prior frame
	QuadCount int // quads in rebuilt batches
	Splits    int // capacity-overflow splits this frame
	Dropped   int // submissions ignored because their key was retained
}

// TotalVertexCount reports vertices generated this frame.
func (s Statistics) TotalVertexCount() int { return s.QuadCount * VertsPerQuad }

// TotalIndexCount reports indices generated this frame.
func (s Statistics) TotalIndexCount() int { return s.QuadCount * IndsPerQuad }
