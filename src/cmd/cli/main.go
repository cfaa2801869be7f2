package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mac/go-concat/src/concat"
	"github.com/mac/go-concat/src/pixel"
)

// stringList collects repeated -input flags into an ordered slice.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	var inputs stringList
	flag.Var(&inputs, "input", "input image file (PNG or JPEG); repeat for multiple images")

	var (
		outputFile = flag.String("output", "out.png", "output file")
		columns    = flag.Int("columns", 0, "fixed number of grid columns (0 = unset)")
		rows       = flag.Int("rows", 0, "fixed number of grid rows (0 = unset)")
		maxWidth   = flag.Int("maxwidth", 0, "pixel-budget layout: maximum row width")
		maxHeight  = flag.Int("maxheight", 0, "pixel-budget layout: maximum total height")
		background = flag.String("background", "", "background color: name, #hex, or empty for transparent")
		format     = flag.String("format", "png", "output format: png or jpeg")
		quality    = flag.Int("quality", 90, "jpeg quality (1-100), ignored for png output")
		optimize   = flag.String("optimize", "auto", "compression strategy: auto, memory, or speed")
		maxMemory  = flag.Int("maxmemory", 100, "optimize=auto memory budget in MiB")
	)
	flag.Parse()

	if len(inputs) == 0 {
		fmt.Fprintf(os.Stderr, "Error: at least one -input is required\n")
		flag.Usage()
		os.Exit(1)
	}

	req, err := buildRequest(inputs, *columns, *rows, *maxWidth, *maxHeight, *background, *format, *quality, *optimize, *maxMemory)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	req.OnProgress = func(done, total int) {
		fmt.Fprintf(os.Stderr, "concatenated %d/%d images\n", done, total)
	}
	req.OnWarning = func(msg string) {
		fmt.Fprintf(os.Stderr, "warning: %s\n", msg)
	}

	outFile, err := os.Create(*outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer outFile.Close()

	if err := concat.ConcatToStream(req, outFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error concatenating images: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully wrote %s\n", *outputFile)
}

func buildRequest(paths []string, columns, rows, maxWidth, maxHeight int, background, format string, quality int, optimize string, maxMemoryMB int) (concat.Request, error) {
	inputList := make([]concat.Input, len(paths))
	for i, p := range paths {
		inputList[i] = concat.FromPath(p)
	}

	b := concat.NewRequestBuilder(inputList)
	if columns > 0 {
		b = b.Columns(columns)
	}
	if rows > 0 {
		b = b.Rows(rows)
	}
	if maxWidth > 0 || maxHeight > 0 {
		b = b.MaxDimensions(maxWidth, maxHeight)
	}

	if background != "" {
		c, err := pixel.ParseColor(background)
		if err != nil {
			return concat.Request{}, err
		}
		b = b.Background(c)
	}

	switch strings.ToLower(format) {
	case "jpeg", "jpg":
		b = b.JPEG(quality)
	case "png", "":
	default:
		return concat.Request{}, fmt.Errorf("unsupported -format %q", format)
	}

	switch strings.ToLower(optimize) {
	case "memory":
		b = b.Memory()
	case "speed":
		b = b.Speed()
	case "auto", "":
		b = b.Auto()
	default:
		return concat.Request{}, fmt.Errorf("unsupported -optimize %q", optimize)
	}
	b = b.MaxMemoryMB(maxMemoryMB)

	return b.Build(), nil
}
