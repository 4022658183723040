package models

import (
	"encoding/binary"
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/umbra/pkg/math3d"
)

// GLTFLoader loads the triangle geometry of GLTF/GLB files.
type GLTFLoader struct {
	// Weld merges vertices shared by coincident positions, which glTF
	// exporters duplicate for per-corner normals and UVs.
	Weld bool
}

// NewGLTFLoader creates a loader with welding enabled.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{Weld: true}
}

// LoadGLTF loads a .gltf or .glb file with the default loader.
func LoadGLTF(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load reads every triangle primitive of every mesh in the document into a
// single mesh. Node transforms are not applied.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	if l.Weld {
		return Weld(mesh.Name, mesh.Soup()), nil
	}
	return mesh, nil
}

// processMesh appends the positions and faces of one glTF mesh.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		base := len(mesh.Vertices)
		mesh.Vertices = append(mesh.Vertices, positions...)

		// glTF front faces are counter-clockwise, which matches the
		// right-handed (b-a)×(c-a) normal, so indices are kept as-is.
		if prim.Indices != nil {
			indices, err := readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
			for i := 0; i+2 < len(indices); i += 3 {
				mesh.Faces = append(mesh.Faces, F(base+indices[i], base+indices[i+1], base+indices[i+2]))
			}
		} else {
			for i := 0; i+2 < len(positions); i += 3 {
				mesh.Faces = append(mesh.Faces, F(base+i, base+i+1, base+i+2))
			}
		}
	}

	return nil
}

// readVec3Accessor reads float VEC3 data from an accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}
	if accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float components, got %v", accessor.ComponentType)
	}

	data, stride, err := accessorBytes(doc, accessor, 12)
	if err != nil {
		return nil, err
	}

	result := make([]math3d.Vec3, accessor.Count)
	for i := range accessor.Count {
		rec := data[i*stride:]
		result[i] = math3d.V3(
			float64(readFloat32(rec)),
			float64(readFloat32(rec[4:])),
			float64(readFloat32(rec[8:])),
		)
	}
	return result, nil
}

// readIndices reads scalar index data of any unsigned component width.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", accessor.Type)
	}

	var size int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index component type: %v", accessor.ComponentType)
	}

	data, stride, err := accessorBytes(doc, accessor, size)
	if err != nil {
		return nil, err
	}

	result := make([]int, accessor.Count)
	for i := range accessor.Count {
		rec := data[i*stride:]
		switch size {
		case 1:
			result[i] = int(rec[0])
		case 2:
			result[i] = int(binary.LittleEndian.Uint16(rec))
		case 4:
			result[i] = int(binary.LittleEndian.Uint32(rec))
		}
	}
	return result, nil
}

// accessorBytes returns the buffer bytes an accessor starts at and the
// element stride, falling back to the packed element size.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor, elemSize int) ([]byte, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor has no buffer view")
	}

	view := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[view.Buffer]
	if buffer.Data == nil {
		return nil, 0, fmt.Errorf("buffer %d has no data", view.Buffer)
	}

	stride := view.ByteStride
	if stride == 0 {
		stride = elemSize
	}

	start := view.ByteOffset + accessor.ByteOffset
	end := start + (accessor.Count-1)*stride + elemSize
	if accessor.Count == 0 {
		end = start
	}
	if start < 0 || end > len(buffer.Data) {
		return nil, 0, fmt.Errorf("accessor range [%d, %d) exceeds buffer of %d bytes", start, end, len(buffer.Data))
	}
	return buffer.Data[start:end], stride, nil
}
