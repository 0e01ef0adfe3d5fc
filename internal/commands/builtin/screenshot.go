package builtin

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"gameterm/internal/commands"
	"gameterm/internal/render"
)

// Screenshot rasterizes the terminal with the bundled monospace font and
// saves it as a PNG.
func Screenshot(src Snapshotter) *commands.Command {
	return commands.New("screenshot", "save the terminal as a png image.\n\nthe image is drawn with the built-in monospace font, whatever the host draws with.").
		Arg("path", "file to write").
		Flag("width", 640, "image width in pixels").
		Flag("size", float64(render.DefaultFontSize), "font size in pixels").
		Run(func(inv *commands.Invocation) error {
			width, err := inv.Int("width")
			if err != nil {
				return err
			}
			size, err := inv.Float("size")
			if err != nil {
				return err
			}

			raster, err := render.NewMonospaceRaster(size)
			if err != nil {
				return err
			}
			frame := src.RenderWith(raster, image.Pt(width, src.Capacity()*raster.LineHeight()))
			surface, ok := frame.(*render.RasterSurface)
			if !ok {
				return fmt.Errorf("unexpected surface %T", frame)
			}

			path := inv.Arg("path")
			if err := writePNG(path, surface.Image()); err != nil {
				return err
			}
			inv.Printer().Success("saved " + path)
			return nil
		})
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return f.Close()
}
