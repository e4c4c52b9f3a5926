package theme

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"reflect"
	"strings"

	"github.com/example/polyshot/internal/colorspec"
)

// Parse reads a theme definition from an io.Reader.
// The format is a simple key-value pair per line: Key: <color>, where the
// color is anything colorspec.Parse accepts.
func Parse(r io.Reader) (*Theme, error) {
	t := Default() // Start with defaults
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		if err := SetField(t, strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])); err != nil {
			return nil, err
		}
	}

	return t, scanner.Err()
}

// SetField assigns value to the field named key, matched case-insensitively.
// Unknown keys are ignored for forward compatibility.
func SetField(t *Theme, key, value string) error {
	if strings.EqualFold(key, "Name") {
		t.Name = value
		return nil
	}

	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if !strings.EqualFold(f.Name, key) || f.Type != reflect.TypeOf(color.RGBA{}) {
			continue
		}
		col, err := ParseColor(value)
		if err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		val.Field(i).Set(reflect.ValueOf(col))
		return nil
	}
	return nil
}

// Field is one color entry of a theme.
type Field struct {
	Key   string
	Value color.RGBA
}

// Fields lists the color fields of t in declaration order, for
// serialisation.
func Fields(t *Theme) []Field {
	var out []Field
	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		if c, ok := val.Field(i).Interface().(color.RGBA); ok {
			out = append(out, Field{Key: typ.Field(i).Name, Value: c})
		}
	}
	return out
}

// ParseColor converts a color specification to premultiplied RGBA.
func ParseColor(s string) (color.RGBA, error) {
	c, err := colorspec.Parse(s)
	if err != nil {
		return color.RGBA{}, err
	}
	return color.RGBAModel.Convert(c.NRGBA()).(color.RGBA), nil
}

// Hex formats c the way themes are written.
func Hex(c color.RGBA) string {
	return colorspec.FromRGBA(c).Hex()
}
