package wavefront

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveIndex(t *testing.T) {
	pool := []Vertex{
		{1, 2, 3},
		{2, 3, 4},
		{3, 4, 5},
		{4, 5, 6},
		{5, 6, 7},
	}

	tests := []struct {
		index int
		want  Vertex
		ok    bool
	}{
		{1, Vertex{1, 2, 3}, true},
		{-5, Vertex{1, 2, 3}, true},
		{5, Vertex{5, 6, 7}, true},
		{-1, Vertex{5, 6, 7}, true},
		{3, Vertex{3, 4, 5}, true},
		{-3, Vertex{3, 4, 5}, true},
		{0, Vertex{}, false},
		{6, Vertex{}, false},
		{-6, Vertex{}, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.index), func(t *testing.T) {
			got, err := resolveIndex(pool, tt.index)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrInvalidIndex)
				assert.Equal(t, "Invalid index", err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, index := range []int{0, 1, -1} {
		_, err := resolveIndex(nil, index)
		assert.ErrorIs(t, err, ErrInvalidIndex, "empty pool, index %d", index)
	}
}

func TestResolveIndexEnds(t *testing.T) {
	for n := 1; n <= 8; n++ {
		pool := make([]Vertex, n)
		for i := range pool {
			pool[i] = Vertex{X: float64(i)}
		}

		first, err := resolveIndex(pool, 1)
		require.NoError(t, err)
		assert.Equal(t, pool[0], first)

		last, err := resolveIndex(pool, -1)
		require.NoError(t, err)
		assert.Equal(t, pool[n-1], last)

		_, err = resolveIndex(pool, n+1)
		assert.ErrorIs(t, err, ErrInvalidIndex)
		_, err = resolveIndex(pool, -(n + 1))
		assert.ErrorIs(t, err, ErrInvalidIndex)
	}
}

func TestParseObject(t *testing.T) {
	got, err := ParseObject("v 1.0 2.0 -3.0\nf 1// 1// 1//\n")
	require.NoError(t, err)

	corner := Vertex{1, 2, -3}
	want := &Object{
		Triangles: []Triangle{
			{V1: corner, V2: corner, V3: corner},
		},
		RawVertices:        []Vertex{corner},
		RawVerticesTexture: []Vertex{},
		RawVerticesNormals: []Vertex{},
	}
	assert.Equal(t, want, got)
	assert.Empty(t, got.Triangles[0].MaterialName)
}

func TestParseObjectInvalidIndex(t *testing.T) {
	got, err := ParseObject("v 1.0 2.0 -3.0\nf 0// 1// 1//\n")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.Equal(t, "Invalid index", err.Error())
	assert.True(t, errors.Is(err, ErrInvalidIndex))
}

func TestParseObjectOverflowingIndex(t *testing.T) {
	for _, in := range []string{
		"v 1 2 3\nf 99999999999999999999 1 1\n",
		"v 1 2 3\nf 1 1 -99999999999999999999\n",
		"v 1 2 3\nvt 0 0\nf 1/99999999999999999999 1 1\n",
	} {
		got, err := ParseObject(in)
		assert.Nil(t, got, "input %q", in)
		assert.ErrorIs(t, err, ErrInvalidIndex, "input %q", in)
	}
}

func TestParseObjectUnicodeSeparatedNames(t *testing.T) {
	got, err := ParseObject("mtllib a.mtl\u2029usemtl Red\u2028o cube\u2028v 1 2 3\u2028f 1 1 1\n")
	require.NoError(t, err)
	require.Len(t, got.Triangles, 1)
	assert.Equal(t, "Red", got.Triangles[0].MaterialName)

	obj, libs, err := ParseObjectLibraries("mtllib a.mtl\u2028mtllib b.mtl\u2029v 1 2 3\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mtl", "b.mtl"}, libs)
	assert.Len(t, obj.RawVertices, 1)
}

func TestParseObjectLeftover(t *testing.T) {
	got, err := ParseObject("v 1.0 2.0 -3.0\nf 1// 1// 1//\nl\n")
	assert.Nil(t, got)

	var le *LeftoverError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "l\n", le.Remaining)
	assert.Equal(t, `parser error: failed parsing everything, leftover: "l\n"`, err.Error())
}

func TestRecordsReturnsPartialResult(t *testing.T) {
	rest, got, err := records(objectRule)("mtllib Material.Library\nusemtl Material.01\nl\n")
	require.NoError(t, err)
	assert.Equal(t, "l\n", rest)
	assert.Equal(t, []objectValue{
		materialLibraryValue{"Material.Library"},
		useMaterialValue{"Material.01"},
	}, got)
}

const objectFixture = `mtllib Material.Library
usemtl Material.01
v 1.0 2.0 -3.0
mtllib Material.Library2
v 1.0 3.0 -3.0
s 0
vn 1.0 2.0 -3.0
g ValueGroup.2
f -1/5/9 2/-6/10 3/7/-11
usemtl Material.02
f 1/1 2/2/ 3/3
v 1.0 2.0 -3.0
f 1//1 2//2 3//3
vn 1.0 2.0 -3.0
f 1 2/ 3//
g ValueGroup.1 ValueGroup.2 MaterialValueGroup.3.Yes!
s 0
`

func TestParseObjectValues(t *testing.T) {
	got, err := parseObjectValues(objectFixture)
	require.NoError(t, err)

	i := ptr[int]
	want := []objectValue{
		materialLibraryValue{"Material.Library"},
		useMaterialValue{"Material.01"},
		geometricVertexValue{Vertex{1, 2, -3}},
		materialLibraryValue{"Material.Library2"},
		geometricVertexValue{Vertex{1, 3, -3}},
		smoothingGroupValue{0},
		normalVertexValue{Vertex{1, 2, -3}},
		groupValue{[]string{"ValueGroup.2"}},
		faceValue{[3]VertexTriplet{
			{V: -1, VT: i(5), VN: i(9)},
			{V: 2, VT: i(-6), VN: i(10)},
			{V: 3, VT: i(7), VN: i(-11)},
		}},
		useMaterialValue{"Material.02"},
		faceValue{[3]VertexTriplet{
			{V: 1, VT: i(1)},
			{V: 2, VT: i(2)},
			{V: 3, VT: i(3)},
		}},
		geometricVertexValue{Vertex{1, 2, -3}},
		faceValue{[3]VertexTriplet{
			{V: 1, VN: i(1)},
			{V: 2, VN: i(2)},
			{V: 3, VN: i(3)},
		}},
		normalVertexValue{Vertex{1, 2, -3}},
		faceValue{[3]VertexTriplet{
			{V: 1},
			{V: 2},
			{V: 3},
		}},
		groupValue{[]string{"ValueGroup.1", "ValueGroup.2", "MaterialValueGroup.3.Yes!"}},
		smoothingGroupValue{0},
	}
	assert.Equal(t, want, got)

	libs, err := MaterialLibraries(objectFixture)
	require.NoError(t, err)
	assert.Equal(t, []string{"Material.Library", "Material.Library2"}, libs)
}

func TestObjectRecords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want objectValue
	}{
		{"mtllib", " mtllib Material.Library\n", materialLibraryValue{"Material.Library"}},
		{"usemtl", " usemtl Material.01\n", useMaterialValue{"Material.01"}},
		{"object name", "o Cube\n", objectNameValue{"Cube"}},
		{"vertex", " v 1.0 2.0 -3.0\n", geometricVertexValue{Vertex{1, 2, -3}}},
		{"normal", " vn 1.0 2.0 -3.0\n", normalVertexValue{Vertex{1, 2, -3}}},
		{"texture uvw", "vt 0.5 0.25 1\n", textureVertexValue{Vertex{0.5, 0.25, 1}}},
		{"texture uv", "vt 0.5 0.25\n", textureVertexValue{Vertex{0.5, 0.25, 0}}},
		{"group", " g ValueGroup.1\n", groupValue{[]string{"ValueGroup.1"}}},
		{"smoothing", " s 0\n", smoothingGroupValue{0}},
		{"smoothing one", " s 1\n", smoothingGroupValue{1}},
		{"smoothing off", "s off\n", smoothingGroupValue{0}},
		{"tabs", "v\t1\t2\t3\n", geometricVertexValue{Vertex{1, 2, 3}}},
		{"trailing comment", "v 1 2 3 # corner\n", geometricVertexValue{Vertex{1, 2, 3}}},
		{"end of input", "v 1 2 3", geometricVertexValue{Vertex{1, 2, 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rest, got, err := objectRule(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Empty(t, rest)
		})
	}
}

func TestObjectRecordsReject(t *testing.T) {
	for _, in := range []string{
		" mtllib Material.Library after\n",
		" before mtllib Material.Library\n",
		" usemtl Material.01 after\n",
		" before usemtl Material.01\n",
		" v 1.0 2.0 3.0 after\n",
		" before v 1.0 2.0 3.0\n",
		" v 1.0 2.0\n",
		" vn 1.0 2.0 3.0 after\n",
		" before vn 1.0 2.0 3.0\n",
		"vt 0.5\n",
		" before g ValueGroup1\n",
		"g\n",
		" before s 0\n",
		" s 0 1\n",
		"s on\n",
		"l 1 2\n",
		"f 1 2 3 4 5\n",
	} {
		t.Run(in, func(t *testing.T) {
			rest, _, err := objectRule(in)
			assert.ErrorIs(t, err, errNoMatch)
			assert.Equal(t, in, rest)
		})
	}
}

func TestFaceRecords(t *testing.T) {
	i := ptr[int]
	tests := []struct {
		name string
		in   string
		want [3]VertexTriplet
	}{
		{
			name: "full triplets",
			in:   " f 1/1/1 2/2/2 3/3/3\n",
			want: [3]VertexTriplet{{1, i(1), i(1)}, {2, i(2), i(2)}, {3, i(3), i(3)}},
		},
		{
			name: "without normals",
			in:   " f 1/1 2/2/ 3/3\n",
			want: [3]VertexTriplet{{1, i(1), nil}, {2, i(2), nil}, {3, i(3), nil}},
		},
		{
			name: "without textures",
			in:   " f 1//1 2//2 3//3\n",
			want: [3]VertexTriplet{{1, nil, i(1)}, {2, nil, i(2)}, {3, nil, i(3)}},
		},
		{
			name: "positions only",
			in:   " f 1 2/ 3//\n",
			want: [3]VertexTriplet{{1, nil, nil}, {2, nil, nil}, {3, nil, nil}},
		},
		{
			name: "relative",
			in:   "f -3/-3/-3 -2/-2/-2 -1/-1/-1\n",
			want: [3]VertexTriplet{{-3, i(-3), i(-3)}, {-2, i(-2), i(-2)}, {-1, i(-1), i(-1)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rest, got, err := objectRule(tt.in)
			require.NoError(t, err)
			assert.Equal(t, faceValue{tt.want}, got)
			assert.Empty(t, rest)
		})
	}

	for _, in := range []string{
		" f 1 2\n",
		" f 1\n",
		" f 1 2 3 4\n",
		" f 1 2 3/3/3/\n",
		" f /1 2 3\n",
		" f a b c\n",
	} {
		t.Run("reject "+in, func(t *testing.T) {
			_, _, err := objectRule(in)
			assert.ErrorIs(t, err, errNoMatch)
		})
	}
}

func TestConstructObjectResolvesAgainstCurrentPools(t *testing.T) {
	in := `v 1 0 0
v 0 1 0
v 0 0 1
f 1 2 3
f -1 -2 -3
usemtl red
v 2 0 0
f -1 4 1
`
	got, err := ParseObject(in)
	require.NoError(t, err)
	require.Len(t, got.Triangles, 3)

	assert.Equal(t, Triangle{V1: Vertex{1, 0, 0}, V2: Vertex{0, 1, 0}, V3: Vertex{0, 0, 1}}, got.Triangles[0])
	assert.Equal(t, Triangle{V1: Vertex{0, 0, 1}, V2: Vertex{0, 1, 0}, V3: Vertex{1, 0, 0}}, got.Triangles[1])
	assert.Equal(t, Triangle{V1: Vertex{2, 0, 0}, V2: Vertex{2, 0, 0}, V3: Vertex{1, 0, 0}, MaterialName: "red"}, got.Triangles[2])
	assert.Len(t, got.RawVertices, 4)

	// Index 4 does not exist yet when the face is read.
	_, err = ParseObject("v 1 0 0\nv 0 1 0\nv 0 0 1\nf 1 2 4\nv 2 0 0\n")
	assert.ErrorIs(t, err, ErrInvalidIndex)
}

func TestConstructObjectTextureAndNormals(t *testing.T) {
	in := `v 0 0 0
vt 0.5 0.25
vt 1 1 0
vn 0 0 1
f 1/1/1 1/2/1 1/-1/-1
`
	got, err := ParseObject(in)
	require.NoError(t, err)
	require.Len(t, got.Triangles, 1)

	tri := got.Triangles[0]
	assert.Equal(t, &Vertex{0.5, 0.25, 0}, tri.VT1)
	assert.Equal(t, &Vertex{1, 1, 0}, tri.VT2)
	assert.Equal(t, &Vertex{1, 1, 0}, tri.VT3)
	assert.Equal(t, &Vertex{0, 0, 1}, tri.VN1)
	assert.Equal(t, &Vertex{0, 0, 1}, tri.VN3)
	assert.Len(t, got.RawVerticesTexture, 2)
	assert.Len(t, got.RawVerticesNormals, 1)

	for _, bad := range []string{
		"v 0 0 0\nf 1/1 1 1\n",
		"v 0 0 0\nvn 0 0 1\nf 1//2 1 1\n",
		"v 0 0 0\nvt 0 0\nf 1/-2 1 1\n",
	} {
		_, err := ParseObject(bad)
		assert.ErrorIs(t, err, ErrInvalidIndex, "input %q", bad)
	}
}

func TestConstructObjectStructPassThrough(t *testing.T) {
	values := []objectValue{
		materialLibraryValue{"lib.mtl"},
		objectNameValue{"Cube"},
		groupValue{[]string{"a", "b"}},
		smoothingGroupValue{1},
		useMaterialValue{"m"},
		geometricVertexValue{Vertex{1, 1, 1}},
		faceValue{[3]VertexTriplet{{V: 1}, {V: 1}, {V: -1}}},
		useMaterialValue{"n"},
		faceValue{[3]VertexTriplet{{V: 1}, {V: 1}, {V: 1}}},
	}
	got, err := constructObjectStruct(values)
	require.NoError(t, err)
	require.Len(t, got.Triangles, 2)
	assert.Equal(t, "m", got.Triangles[0].MaterialName)
	assert.Equal(t, "n", got.Triangles[1].MaterialName)

	empty, err := constructObjectStruct(nil)
	require.NoError(t, err)
	assert.Empty(t, empty.Triangles)
}

func TestParseObjectIgnoresInterleavedComments(t *testing.T) {
	noisy := "# exported\n\n" + strings.ReplaceAll(objectFixture, "\n", "\n# note\n   \n")
	// The fixture references texture vertices it never declares, so compare
	// the value streams rather than resolved objects.
	want, err := parseObjectValues(objectFixture)
	require.NoError(t, err)
	got, err := parseObjectValues(noisy)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	crlf, err := parseObjectValues(strings.ReplaceAll(objectFixture, "\n", "\r\n"))
	require.NoError(t, err)
	assert.Equal(t, want, crlf)
}

func TestParseObjectCommentsOnly(t *testing.T) {
	got, err := ParseObject("# nothing\n\n\t\n")
	require.NoError(t, err)
	assert.Empty(t, got.Triangles)
	assert.Empty(t, got.RawVertices)

	got, err = ParseObject("")
	require.NoError(t, err)
	assert.Empty(t, got.Triangles)
}

func TestParseObjectConcurrent(t *testing.T) {
	text := cubeOBJ(4)
	want, err := ParseObject(text)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*Object, 8)
	errs := make([]error, len(results))
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = ParseObject(text)
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, want, results[i])
	}
}

// cubeOBJ writes n unit cubes side by side, each face list using relative
// indices so every cube resolves against its own eight vertices.
func cubeOBJ(n int) string {
	var b strings.Builder
	b.WriteString("# generated\nmtllib cube.mtl\n")
	for c := range n {
		x := float64(c) * 2
		fmt.Fprintf(&b, "o cube%d\nusemtl m%d\n", c, c%2)
		for _, p := range [8][3]float64{
			{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
			{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
		} {
			fmt.Fprintf(&b, "v %.1f %.1f %.1f\n", x+p[0], p[1], p[2])
		}
		for _, f := range [12][3]int{
			{1, 2, 3}, {1, 3, 4}, {5, 7, 6}, {5, 8, 7},
			{1, 5, 6}, {1, 6, 2}, {4, 3, 7}, {4, 7, 8},
			{1, 4, 8}, {1, 8, 5}, {2, 6, 7}, {2, 7, 3},
		} {
			fmt.Fprintf(&b, "f %d %d %d\n", f[0]-9, f[1]-9, f[2]-9)
		}
	}
	return b.String()
}

func TestCubeFixture(t *testing.T) {
	got, err := ParseObject(cubeOBJ(3))
	require.NoError(t, err)
	assert.Len(t, got.Triangles, 36)
	assert.Len(t, got.RawVertices, 24)
	assert.Equal(t, Vertex{4, 0, 0}, got.Triangles[24].V1)
	assert.Equal(t, "m1", got.Triangles[12].MaterialName)
}

func BenchmarkParseObject(b *testing.B) {
	text := cubeOBJ(200)
	for b.Loop() {
		if _, err := ParseObject(text); err != nil {
			b.Fatal(err)
		}
	}
}
