package pointcloud

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chenzhekl/goply"
	"github.com/edaniels/golog"
	"github.com/edaniels/lidario"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"
)

// NewFromFile returns a point cloud read in from the given file.
func NewFromFile(fn string, logger golog.Logger) (*PointCloud, error) {
	switch filepath.Ext(fn) {
	case ".ply":
		return NewFromPLYFile(fn, logger)
	case ".las":
		return NewFromLASFile(fn, logger)
	default:
		return nil, errors.Errorf("do not know how to read file %q", fn)
	}
}

// NewFromPLYFile returns a point cloud from reading a PLY file. Vertex
// colors are carried over when red/green/blue properties are present.
func NewFromPLYFile(fn string, logger golog.Logger) (_ *PointCloud, err error) {
	f, err := os.Open(filepath.Clean(fn))
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(f.Close)
	return ReadPLY(bufio.NewReader(f), logger)
}

// ReadPLY parses PLY data from the reader into a point cloud.
func ReadPLY(r io.Reader, logger golog.Logger) (*PointCloud, error) {
	ply := goply.New(r)
	vertices := ply.Elements("vertex")
	if len(vertices) == 0 {
		return nil, errors.New("ply data contains no vertices")
	}

	_, hasColor := vertices[0]["red"]
	positions := make([]float64, 0, 3*len(vertices))
	var colors []float64
	if hasColor {
		colors = make([]float64, 0, 3*len(vertices))
	}
	for _, v := range vertices {
		positions = append(positions, asFloat(v["x"]), asFloat(v["y"]), asFloat(v["z"]))
		if hasColor {
			colors = append(colors, asFloat(v["red"])/255, asFloat(v["green"])/255, asFloat(v["blue"])/255)
		}
	}
	logger.Debugw("read ply cloud", "points", len(vertices), "colored", hasColor)
	return New(positions, colors)
}

// NewFromLASFile returns a point cloud from reading a LAS file.
func NewFromLASFile(fn string, logger golog.Logger) (*PointCloud, error) {
	lf, err := lidario.NewLasFile(fn, "r")
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(lf.Close)

	n := lf.Header.NumberPoints
	hasColor := lf.Header.PointFormatID == 2
	positions := make([]float64, 0, 3*n)
	var colors []float64
	if hasColor {
		colors = make([]float64, 0, 3*n)
	}
	for i := 0; i < n; i++ {
		p, err := lf.LasPoint(i)
		if err != nil {
			return nil, err
		}
		data := p.PointData()
		positions = append(positions, data.X, data.Y, data.Z)
		if hasColor {
			if rgb := p.RgbData(); rgb != nil {
				colors = append(colors,
					float64(rgb.Red)/65535,
					float64(rgb.Green)/65535,
					float64(rgb.Blue)/65535)
			} else {
				colors = append(colors, 0, 0, 0)
			}
		}
	}
	logger.Debugw("read las cloud", "points", n, "colored", hasColor)
	return New(positions, colors)
}

// asFloat coerces the numeric types a PLY property may decode to.
func asFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int16:
		return float64(n)
	case int8:
		return float64(n)
	case uint32:
		return float64(n)
	case uint16:
		return float64(n)
	case uint8:
		return float64(n)
	default:
		return 0
	}
}

// WriteToPCD writes the cloud to the writer in ASCII PCD format, with an rgb
// field when the cloud is colored.
func WriteToPCD(pc *PointCloud, out io.Writer) (err error) {
	w := bufio.NewWriter(out)
	defer func() {
		err = multierr.Combine(err, w.Flush())
	}()

	fields := "x y z"
	size := "4 4 4"
	typ := "F F F"
	count := "1 1 1"
	if pc.HasColor() {
		fields = "x y z rgb"
		size = "4 4 4 4"
		typ = "F F F I"
		count = "1 1 1 1"
	}
	if _, err = fmt.Fprintf(w, "VERSION .7\n"+
		"FIELDS %s\n"+
		"SIZE %s\n"+
		"TYPE %s\n"+
		"COUNT %s\n"+
		"WIDTH %d\n"+
		"HEIGHT 1\n"+
		"VIEWPOINT 0 0 0 1 0 0 0\n"+
		"POINTS %d\n"+
		"DATA ascii\n", fields, size, typ, count, pc.Size(), pc.Size()); err != nil {
		return
	}
	for i := 0; i < pc.Size(); i++ {
		p := pc.At(i)
		if pc.HasColor() {
			r, g, b := pc.ColorAt(i)
			rgb := int(r*255)<<16 | int(g*255)<<8 | int(b*255)
			_, err = fmt.Fprintf(w, "%f %f %f %d\n", p.X, p.Y, p.Z, rgb)
		} else {
			_, err = fmt.Fprintf(w, "%f %f %f\n", p.X, p.Y, p.Z)
		}
		if err != nil {
			return
		}
	}
	return
}
