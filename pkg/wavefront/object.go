package wavefront

import "fmt"

// Vertex is a raw coordinate. Positions, texture coordinates and normals all
// use it.
type Vertex struct {
	X, Y, Z float64
}

// VertexTriplet is one face corner as written: a position index plus
// optional texture and normal indices.
type VertexTriplet struct {
	V  int
	VT *int
	VN *int
}

// Triangle is a face with every index resolved.
type Triangle struct {
	V1, V2, V3    Vertex
	VT1, VT2, VT3 *Vertex
	VN1, VN2, VN3 *Vertex
	MaterialName  string
}

// Object is the result of parsing one object file.
type Object struct {
	Triangles          []Triangle
	RawVertices        []Vertex
	RawVerticesTexture []Vertex
	RawVerticesNormals []Vertex
}

// objectValue is one parsed line of an object file.
type objectValue interface {
	objectValue()
}

type (
	materialLibraryValue struct{ Name string }
	useMaterialValue     struct{ Name string }
	objectNameValue      struct{ Name string }
	geometricVertexValue struct{ Vertex Vertex }
	textureVertexValue   struct{ Vertex Vertex }
	normalVertexValue    struct{ Vertex Vertex }
	faceValue            struct{ Corners [3]VertexTriplet }
	groupValue           struct{ Names []string }
	smoothingGroupValue  struct{ ID int }
)

func (materialLibraryValue) objectValue() {}
func (useMaterialValue) objectValue()     {}
func (objectNameValue) objectValue()      {}
func (geometricVertexValue) objectValue() {}
func (textureVertexValue) objectValue()   {}
func (normalVertexValue) objectValue()    {}
func (faceValue) objectValue()            {}
func (groupValue) objectValue()           {}
func (smoothingGroupValue) objectValue()  {}

func vertex(in string) (string, Vertex, error) {
	rest, xyz, err := separated[float64](float64Literal, 3, 3)(in)
	if err != nil {
		return in, Vertex{}, err
	}
	return rest, Vertex{xyz[0], xyz[1], xyz[2]}, nil
}

// textureVertex accepts "u v" and "u v w"; w defaults to zero.
func textureVertex(in string) (string, Vertex, error) {
	rest, uvw, err := separated[float64](float64Literal, 2, 3)(in)
	if err != nil {
		return in, Vertex{}, err
	}
	v := Vertex{X: uvw[0], Y: uvw[1]}
	if len(uvw) == 3 {
		v.Z = uvw[2]
	}
	return rest, v, nil
}

// slashIndex matches "/" followed by an optional index.
var slashIndex = preceded(tag("/"), opt[int](intLiteral))

// triplet matches v, v/vt, v/vt/vn, v//vn and the trailing-slash forms.
func triplet(in string) (string, VertexTriplet, error) {
	rest, v, err := intLiteral(in)
	if err != nil {
		return in, VertexTriplet{}, err
	}
	t := VertexTriplet{V: v}
	rest, vt, err := opt(slashIndex)(rest)
	if err != nil {
		return in, VertexTriplet{}, err
	}
	if vt == nil {
		return rest, t, nil
	}
	t.VT = *vt
	rest, vn, err := opt(slashIndex)(rest)
	if err != nil {
		return in, VertexTriplet{}, err
	}
	if vn != nil {
		t.VN = *vn
	}
	return rest, t, nil
}

func face(in string) (string, [3]VertexTriplet, error) {
	rest, ts, err := separated[VertexTriplet](triplet, 3, 3)(in)
	if err != nil {
		return in, [3]VertexTriplet{}, err
	}
	return rest, [3]VertexTriplet{ts[0], ts[1], ts[2]}, nil
}

// smoothing accepts a group number or "off", which is group 0.
var smoothing = alt(
	parser[int](intLiteral),
	mapTo(tag("off"), func(string) int { return 0 }),
)

var objectRule = alt(
	mapTo(record[string]("mtllib", notSpace), func(s string) objectValue { return materialLibraryValue{s} }),
	mapTo(record[string]("usemtl", notSpace), func(s string) objectValue { return useMaterialValue{s} }),
	mapTo(record[string]("o", notSpace), func(s string) objectValue { return objectNameValue{s} }),
	mapTo(record[Vertex]("v", vertex), func(v Vertex) objectValue { return geometricVertexValue{v} }),
	mapTo(record[Vertex]("vt", textureVertex), func(v Vertex) objectValue { return textureVertexValue{v} }),
	mapTo(record[Vertex]("vn", vertex), func(v Vertex) objectValue { return normalVertexValue{v} }),
	mapTo(record[[3]VertexTriplet]("f", face), func(c [3]VertexTriplet) objectValue { return faceValue{c} }),
	mapTo(record("g", separated[string](notSpace, 1, -1)), func(n []string) objectValue { return groupValue{n} }),
	mapTo(record("s", smoothing), func(id int) objectValue { return smoothingGroupValue{id} }),
)

func parseObjectValues(text string) ([]objectValue, error) {
	return parseAll(objectRule, text)
}

// ParseObject parses the full text of an object file and resolves every face.
func ParseObject(text string) (*Object, error) {
	obj, _, err := ParseObjectLibraries(text)
	return obj, err
}

// MaterialLibraries returns the mtllib references of an object file in the
// order they appear.
func MaterialLibraries(text string) ([]string, error) {
	values, err := parseObjectValues(text)
	if err != nil {
		return nil, err
	}
	return materialLibraries(values), nil
}

// ParseObjectLibraries is ParseObject that also returns the mtllib
// references, from the same pass over the text.
func ParseObjectLibraries(text string) (*Object, []string, error) {
	values, err := parseObjectValues(text)
	if err != nil {
		return nil, nil, err
	}
	obj, err := constructObjectStruct(values)
	if err != nil {
		return nil, nil, err
	}
	return obj, materialLibraries(values), nil
}

func materialLibraries(values []objectValue) []string {
	var libs []string
	for _, v := range values {
		if lib, ok := v.(materialLibraryValue); ok {
			libs = append(libs, lib.Name)
		}
	}
	return libs
}

// constructObjectStruct walks the values once. Faces resolve against the
// pools as they stand when the face is reached.
func constructObjectStruct(values []objectValue) (*Object, error) {
	obj := &Object{
		Triangles:          []Triangle{},
		RawVertices:        []Vertex{},
		RawVerticesTexture: []Vertex{},
		RawVerticesNormals: []Vertex{},
	}
	material := ""
	for _, v := range values {
		switch v := v.(type) {
		case materialLibraryValue, objectNameValue, groupValue, smoothingGroupValue:
		case useMaterialValue:
			material = v.Name
		case geometricVertexValue:
			obj.RawVertices = append(obj.RawVertices, v.Vertex)
		case textureVertexValue:
			obj.RawVerticesTexture = append(obj.RawVerticesTexture, v.Vertex)
		case normalVertexValue:
			obj.RawVerticesNormals = append(obj.RawVerticesNormals, v.Vertex)
		case faceValue:
			tri, err := obj.resolveTriangle(v.Corners, material)
			if err != nil {
				return nil, err
			}
			obj.Triangles = append(obj.Triangles, tri)
		default:
			return nil, fmt.Errorf("wavefront: unhandled object value %T", v)
		}
	}
	return obj, nil
}

func (o *Object) resolveTriangle(c [3]VertexTriplet, material string) (Triangle, error) {
	var (
		pos    [3]Vertex
		tex    [3]*Vertex
		normal [3]*Vertex
		err    error
	)
	for i, t := range c {
		if pos[i], err = resolveIndex(o.RawVertices, t.V); err != nil {
			return Triangle{}, err
		}
		if tex[i], err = resolveOptional(o.RawVerticesTexture, t.VT); err != nil {
			return Triangle{}, err
		}
		if normal[i], err = resolveOptional(o.RawVerticesNormals, t.VN); err != nil {
			return Triangle{}, err
		}
	}
	return Triangle{
		V1: pos[0], V2: pos[1], V3: pos[2],
		VT1: tex[0], VT2: tex[1], VT3: tex[2],
		VN1: normal[0], VN2: normal[1], VN3: normal[2],
		MaterialName: material,
	}, nil
}

func resolveOptional(pool []Vertex, index *int) (*Vertex, error) {
	if index == nil {
		return nil, nil
	}
	v, err := resolveIndex(pool, *index)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// resolveIndex maps 1..n to pool[i-1] and -n..-1 to pool[n+i]. Anything
// else, zero included, is ErrInvalidIndex.
func resolveIndex(pool []Vertex, index int) (Vertex, error) {
	n := len(pool)
	switch {
	case index >= 1 && index <= n:
		return pool[index-1], nil
	case index <= -1 && index >= -n:
		return pool[n+index], nil
	}
	return Vertex{}, ErrInvalidIndex
}
