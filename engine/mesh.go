package engine

import (
	"fmt"
	"maps"
)

// Mesh is a triangle mesh: a point count, triangular faces over those
// points, and any number of point attributes.
type Mesh struct {
	numPoints  int
	faces      []Face
	attributes []*PointAttribute
	metadata   map[string]string
	nextID     uint32
}

// NewMesh returns an empty mesh.
func NewMesh() *Mesh {
	return &Mesh{}
}

// NumPoints returns the number of points every attribute maps over.
func (m *Mesh) NumPoints() int { return m.numPoints }

// SetNumPoints fixes the point count.
func (m *Mesh) SetNumPoints(n int) { m.numPoints = n }

// NumFaces returns the number of triangles.
func (m *Mesh) NumFaces() int { return len(m.faces) }

// Face returns the i-th triangle.
func (m *Mesh) Face(i int) Face { return m.faces[i] }

// Faces returns the triangles; the slice is owned by the mesh.
func (m *Mesh) Faces() []Face { return m.faces }

// NumAttributes returns the number of attributes.
func (m *Mesh) NumAttributes() int { return len(m.attributes) }

// Attribute returns the i-th attribute in insertion order.
func (m *Mesh) Attribute(i int) *PointAttribute { return m.attributes[i] }

// AddFace appends one triangle.
func (m *Mesh) AddFace(f Face) { m.faces = append(m.faces, f) }

// SetFaces replaces the face list.
func (m *Mesh) SetFaces(faces []Face) { m.faces = faces }

// AddAttribute takes ownership of a and assigns it the next unique id,
// which is also returned.
func (m *Mesh) AddAttribute(a *PointAttribute) uint32 {
	a.uniqueID = m.nextID
	m.nextID++
	m.attributes = append(m.attributes, a)
	return a.uniqueID
}

// addDecodedAttribute keeps the unique id recorded in a stream.
func (m *Mesh) addDecodedAttribute(a *PointAttribute) error {
	if m.AttributeByUniqueID(a.uniqueID) != nil {
		return fmt.Errorf("%w: duplicate attribute id %d", ErrInvalidMesh, a.uniqueID)
	}
	if a.uniqueID >= m.nextID {
		m.nextID = a.uniqueID + 1
	}
	m.attributes = append(m.attributes, a)
	return nil
}

// AttributeByUniqueID returns the attribute with the given id, or nil.
func (m *Mesh) AttributeByUniqueID(id uint32) *PointAttribute {
	for _, a := range m.attributes {
		if a.uniqueID == id {
			return a
		}
	}
	return nil
}

// NamedAttribute returns the first attribute of type t, or nil.
func (m *Mesh) NamedAttribute(t AttributeType) *PointAttribute {
	for _, a := range m.attributes {
		if a.attrType == t {
			return a
		}
	}
	return nil
}

// SetMetadata records a string entry carried alongside the geometry.
func (m *Mesh) SetMetadata(key, value string) {
	if m.metadata == nil {
		m.metadata = make(map[string]string)
	}
	m.metadata[key] = value
}

// Metadata returns a copy of the mesh metadata.
func (m *Mesh) Metadata() map[string]string {
	return maps.Clone(m.metadata)
}

// validate checks that faces reference existing points and that every
// attribute can serve every point.
func (m *Mesh) validate() error {
	if m.numPoints < 0 || uint64(m.numPoints) > uint64(^uint32(0)) {
		return fmt.Errorf("%w: point count %d", ErrInvalidMesh, m.numPoints)
	}
	for i, f := range m.faces {
		for _, p := range f {
			if uint64(p) >= uint64(m.numPoints) {
				return fmt.Errorf("%w: face %d references point %d of %d", ErrInvalidMesh, i, p, m.numPoints)
			}
		}
	}
	for _, a := range m.attributes {
		if a.pointMap == nil {
			if a.numValues < m.numPoints {
				return fmt.Errorf("%w: attribute %d has %d values for %d points", ErrInvalidMesh, a.uniqueID, a.numValues, m.numPoints)
			}
			continue
		}
		if len(a.pointMap) < m.numPoints {
			return fmt.Errorf("%w: attribute %d maps %d of %d points", ErrInvalidMesh, a.uniqueID, len(a.pointMap), m.numPoints)
		}
		for _, v := range a.pointMap[:m.numPoints] {
			if int(v) >= a.numValues {
				return fmt.Errorf("%w: attribute %d maps to value %d of %d", ErrInvalidMesh, a.uniqueID, v, a.numValues)
			}
		}
	}
	return nil
}
