// Package render draws card artwork as ANSI half-block art for the terminal.
package render

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
)

// ImageExtensions are the artwork formats that can be decoded, in lookup order
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif"}

// FindImage looks for artwork sharing the card file's stem, first next to
// the card file and then in an images directory beside or above it
func FindImage(cardPath string) (string, error) {
	dir := filepath.Dir(cardPath)
	stem := strings.TrimSuffix(filepath.Base(cardPath), filepath.Ext(cardPath))

	searchDirs := []string{
		dir,
		filepath.Join(dir, "images"),
		filepath.Join(filepath.Dir(dir), "images"),
	}

	for _, d := range searchDirs {
		for _, ext := range ImageExtensions {
			path := filepath.Join(d, stem+ext)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, nil
			}
		}
	}

	return "", fmt.Errorf("no image found for card: %s", stem)
}

// LoadImage opens and decodes an image file
func LoadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// ImageToANSI converts an image to width x height cells of ANSI art. Each
// cell is an upper half block: top pixels as foreground, bottom as background.
func ImageToANSI(img image.Image, width, height int, trueColor bool) string {
	resized := resize.Resize(uint(width*2), uint(height*2), img, resize.Lanczos3)

	var buffer strings.Builder
	for y := 0; y < height*2; y += 2 {
		for x := 0; x < width*2; x += 2 {
			c1 := colorAt(resized, x, y)
			c2 := colorAt(resized, x+1, y)
			c3 := colorAt(resized, x, y+1)
			c4 := colorAt(resized, x+1, y+1)

			col1, _ := colorful.MakeColor(c1)
			col2, _ := colorful.MakeColor(c2)
			col3, _ := colorful.MakeColor(c3)
			col4, _ := colorful.MakeColor(c4)

			fg := toRGBA(averageColor(col1, col2))
			bg := toRGBA(averageColor(col3, col4))

			buffer.WriteString(cell('▀', fg, bg, trueColor))
		}
		buffer.WriteString("\n")
	}

	return buffer.String()
}

// colorAt returns the color at a coordinate, black when out of bounds
func colorAt(img image.Image, x, y int) color.Color {
	bounds := img.Bounds()
	if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
		return img.At(bounds.Min.X+x, bounds.Min.Y+y)
	}
	return color.RGBA{0, 0, 0, 255}
}

func averageColor(colors ...colorful.Color) colorful.Color {
	var r, g, b float64
	for _, c := range colors {
		r += c.R
		g += c.G
		b += c.B
	}
	count := float64(len(colors))
	return colorful.Color{R: r / count, G: g / count, B: b / count}
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// cell formats a character with 24-bit foreground and background colors
func cell(char rune, fg, bg color.RGBA, trueColor bool) string {
	if !trueColor {
		return string(char)
	}
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm%c\x1b[0m",
		fg.R, fg.G, fg.B, bg.R, bg.G, bg.B, char)
}

// StripANSI removes ANSI escape sequences from a string
func StripANSI(s string) string {
	var result strings.Builder
	inEscape := false
	for _, c := range s {
		if inEscape {
			if c == 'm' {
				inEscape = false
			}
		} else if c == '\033' {
			inEscape = true
		} else {
			result.WriteRune(c)
		}
	}
	return result.String()
}

// VisibleWidth counts the runes of s that are not part of escape sequences
func VisibleWidth(s string) int {
	return len([]rune(StripANSI(s)))
}

// WrapText wraps text to a specified width
func WrapText(text string, width int) []string {
	if width < 10 {
		width = 40
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var result []string
	var currentLine string
	for _, word := range words {
		if len(currentLine) == 0 {
			currentLine = word
		} else if len(currentLine)+1+len(word) <= width {
			currentLine += " " + word
		} else {
			result = append(result, currentLine)
			currentLine = word
		}
	}

	if currentLine != "" {
		result = append(result, currentLine)
	}

	return result
}

// SideBySide prints art on the left and info lines on the right
func SideBySide(art string, info []string, spacing int) string {
	artLines := strings.Split(strings.TrimRight(art, "\n"), "\n")
	if art == "" {
		artLines = nil
	}

	artWidth := 0
	for _, line := range artLines {
		if w := VisibleWidth(line); w > artWidth {
			artWidth = w
		}
	}
	infoStart := artWidth + spacing

	var b strings.Builder
	for i := 0; i < max(len(artLines), len(info)); i++ {
		b.WriteString("  ")
		if i < len(artLines) {
			b.WriteString(artLines[i])
			b.WriteString(strings.Repeat(" ", infoStart-VisibleWidth(artLines[i])))
		} else {
			b.WriteString(strings.Repeat(" ", infoStart))
		}
		if i < len(info) {
			b.WriteString(info[i])
		}
		b.WriteString("\n")
	}
	return b.String()
}
