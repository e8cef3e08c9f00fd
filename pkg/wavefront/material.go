package wavefront

import (
	"fmt"
	"strconv"

	"go.uber.org/multierr"
)

// Color is an RGB triple as written in a material file. Channels are not
// clamped.
type Color struct {
	R, G, B float64
}

// Material is one validated newmtl block.
type Material struct {
	Name          string
	ColorAmbient  Color
	ColorDiffuse  Color
	ColorSpecular Color

	ColorTransmission   *Color
	ColorEmissive       *Color
	Illumination        *Illumination
	Alpha               *float64
	SpecularCoefficient *float64
	OpticalDensity      *float64
}

// Illumination is the illum model number of a material.
type Illumination int

const (
	ColorOnAmbientOff Illumination = iota
	ColorOnAmbientOn
	HighlightOn
	ReflectionOnAndRayTraceOn
	TransparencyGlassOnReflectionRayTraceOn
	ReflectionFresnelOnAndRayTraceOn
	TransparencyRefractionOnReflectionFresnelOffAndRayTraceOn
	TransparencyRefractionOnReflectionFresnelOnAndRayTraceOn
	TeflectionOnAndRayTraceOff
	TransparencyGlassOnReflectionRayTraceOff
	CastsShadowsOntoInvisibleSurfaces
)

var illuminationNames = [...]string{
	"ColorOnAmbientOff",
	"ColorOnAmbientOn",
	"HighlightOn",
	"ReflectionOnAndRayTraceOn",
	"TransparencyGlassOnReflectionRayTraceOn",
	"ReflectionFresnelOnAndRayTraceOn",
	"TransparencyRefractionOnReflectionFresnelOffAndRayTraceOn",
	"TransparencyRefractionOnReflectionFresnelOnAndRayTraceOn",
	"TeflectionOnAndRayTraceOff",
	"TransparencyGlassOnReflectionRayTraceOff",
	"CastsShadowsOntoInvisibleSurfaces",
}

func (i Illumination) String() string {
	if i < 0 || int(i) >= len(illuminationNames) {
		return "Illumination(" + strconv.Itoa(int(i)) + ")"
	}
	return illuminationNames[i]
}

// ParseIllumination maps an illum number to its model.
func ParseIllumination(n int) (Illumination, error) {
	if n < 0 || n >= len(illuminationNames) {
		return 0, &IlluminationError{Value: n}
	}
	return Illumination(n), nil
}

// materialValue is one parsed line of a material file.
type materialValue interface {
	materialValue()
}

type (
	nameValue                struct{ Name string }
	ambientColorValue        struct{ Color Color }
	diffuseColorValue        struct{ Color Color }
	specularColorValue       struct{ Color Color }
	transmissionColorValue   struct{ Color Color }
	emissiveColorValue       struct{ Color Color }
	illuminationValue        struct{ Illumination Illumination }
	alphaValue               struct{ Alpha float64 }
	specularCoefficientValue struct{ Coefficient float64 }
	opticalDensityValue      struct{ Density float64 }
)

func (nameValue) materialValue()                {}
func (ambientColorValue) materialValue()        {}
func (diffuseColorValue) materialValue()        {}
func (specularColorValue) materialValue()       {}
func (transmissionColorValue) materialValue()   {}
func (emissiveColorValue) materialValue()       {}
func (illuminationValue) materialValue()        {}
func (alphaValue) materialValue()               {}
func (specularCoefficientValue) materialValue() {}
func (opticalDensityValue) materialValue()      {}

// color reads one to three channels. A missing green falls back to red and
// a missing blue falls back to red as well.
func color(in string) (string, Color, error) {
	rest, ch, err := separated[float64](float64Literal, 1, 3)(in)
	if err != nil {
		return in, Color{}, err
	}
	c := Color{R: ch[0], G: ch[0], B: ch[0]}
	if len(ch) > 1 {
		c.G = ch[1]
	}
	if len(ch) > 2 {
		c.B = ch[2]
	}
	return rest, c, nil
}

func illumination(in string) (string, Illumination, error) {
	rest, n, err := intLiteral(in)
	if err != nil {
		return in, 0, err
	}
	il, err := ParseIllumination(n)
	if err != nil {
		return in, 0, err
	}
	return rest, il, nil
}

func colorRecord(keyword string, wrap func(Color) materialValue) parser[materialValue] {
	return mapTo(record[Color](keyword, color), wrap)
}

func scalarRecord(keyword string, wrap func(float64) materialValue) parser[materialValue] {
	return mapTo(record[float64](keyword, float64Literal), wrap)
}

var materialRule = alt(
	mapTo(record[string]("newmtl", notSpace), func(s string) materialValue { return nameValue{s} }),
	colorRecord("Ka", func(c Color) materialValue { return ambientColorValue{c} }),
	colorRecord("Kd", func(c Color) materialValue { return diffuseColorValue{c} }),
	colorRecord("Ks", func(c Color) materialValue { return specularColorValue{c} }),
	colorRecord("Tf", func(c Color) materialValue { return transmissionColorValue{c} }),
	colorRecord("Ke", func(c Color) materialValue { return emissiveColorValue{c} }),
	mapTo(record[Illumination]("illum", illumination), func(i Illumination) materialValue { return illuminationValue{i} }),
	scalarRecord("d", func(f float64) materialValue { return alphaValue{f} }),
	scalarRecord("Ns", func(f float64) materialValue { return specularCoefficientValue{f} }),
	scalarRecord("Ni", func(f float64) materialValue { return opticalDensityValue{f} }),
)

func parseMaterialValues(text string) ([]materialValue, error) {
	return parseAll(materialRule, text)
}

// ParseMaterials parses the full text of a material library.
func ParseMaterials(text string) ([]Material, error) {
	values, err := parseMaterialValues(text)
	if err != nil {
		return nil, err
	}
	return constructMaterialStructs(values)
}

// constructMaterialStructs splits values at every name and builds one
// material per segment. The first invalid segment fails the whole file.
func constructMaterialStructs(values []materialValue) ([]Material, error) {
	var segments [][]materialValue
	start := 0
	for i, v := range values {
		if _, ok := v.(nameValue); !ok {
			continue
		}
		if i > start || len(segments) > 0 {
			segments = append(segments, values[start:i])
		}
		start = i
	}
	segments = append(segments, values[start:])

	materials := make([]Material, 0, len(segments))
	for _, seg := range segments {
		m, err := constructMaterialStruct(seg)
		if err != nil {
			return nil, err
		}
		materials = append(materials, m)
	}
	return materials, nil
}

// constructMaterialStruct builds a single material, reporting every missing
// and duplicated field at once.
func constructMaterialStruct(values []materialValue) (Material, error) {
	var (
		m      Material
		counts [10]int
	)
	const (
		fName = iota
		fAmbient
		fDiffuse
		fSpecular
		fTransmission
		fEmissive
		fIllumination
		fAlpha
		fSpecularCoefficient
		fOpticalDensity
	)
	for _, v := range values {
		switch v := v.(type) {
		case nameValue:
			counts[fName]++
			m.Name = v.Name
		case ambientColorValue:
			counts[fAmbient]++
			m.ColorAmbient = v.Color
		case diffuseColorValue:
			counts[fDiffuse]++
			m.ColorDiffuse = v.Color
		case specularColorValue:
			counts[fSpecular]++
			m.ColorSpecular = v.Color
		case transmissionColorValue:
			counts[fTransmission]++
			m.ColorTransmission = &v.Color
		case emissiveColorValue:
			counts[fEmissive]++
			m.ColorEmissive = &v.Color
		case illuminationValue:
			counts[fIllumination]++
			m.Illumination = &v.Illumination
		case alphaValue:
			counts[fAlpha]++
			m.Alpha = &v.Alpha
		case specularCoefficientValue:
			counts[fSpecularCoefficient]++
			m.SpecularCoefficient = &v.Coefficient
		case opticalDensityValue:
			counts[fOpticalDensity]++
			m.OpticalDensity = &v.Density
		default:
			return Material{}, fmt.Errorf("wavefront: unhandled material value %T", v)
		}
	}

	checks := [...]struct {
		required   bool
		missing    error
		duplicated error
	}{
		fName:                {true, ErrNameNotFound, ErrDuplicateName},
		fAmbient:             {true, ErrAmbientNotFound, ErrDuplicateAmbient},
		fDiffuse:             {true, ErrDiffuseNotFound, ErrDuplicateDiffuse},
		fSpecular:            {true, ErrSpecularNotFound, ErrDuplicateSpecular},
		fTransmission:        {false, nil, ErrDuplicateTransmission},
		fEmissive:            {false, nil, ErrDuplicateEmissive},
		fIllumination:        {false, nil, ErrDuplicateIllumination},
		fAlpha:               {false, nil, ErrDuplicateAlpha},
		fSpecularCoefficient: {false, nil, ErrDuplicateSpecularExp},
		fOpticalDensity:      {false, nil, ErrDuplicateDensity},
	}
	var errs error
	for f, c := range checks {
		switch {
		case counts[f] == 0 && c.required:
			errs = multierr.Append(errs, c.missing)
		case counts[f] > 1:
			errs = multierr.Append(errs, c.duplicated)
		}
	}
	if errs != nil {
		return Material{}, &ValidationError{Material: m.Name, errs: errs}
	}
	return m, nil
}
