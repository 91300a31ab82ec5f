package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/cardcheck/internal/card"
	"github.com/arcanaland/cardcheck/internal/render"
	"github.com/arcanaland/cardcheck/internal/validator"
)

var (
	showImage string
	showWidth int
	showAs    string
	showNoArt bool
)

var showCmd = &cobra.Command{
	Use:   "show [card_file]",
	Short: "Display a card record with its classification and ANSI art",
	Long: `Show prints a card's name, category and validation status next to ANSI art
rendered from the card's image.

The image is looked up next to the card file, or in an images directory beside
or above it, using the card file's name with a .png, .jpg, .jpeg or .gif extension.
Use --image to point at a specific file.

Examples:
  cardcheck show "01 - Base Set 1 (BS)/card_details/058-pikachu.json"
  cardcheck show --as trainer-support ./bill.json
  cardcheck show --image ./art/mewtwo.png ./010-mewtwo.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cardPath := args[0]

		data, err := os.ReadFile(cardPath)
		if err != nil {
			return fmt.Errorf("error reading card: %w", err)
		}
		rec, err := validator.Decode(data)
		if err != nil {
			return fmt.Errorf("error parsing card: %w", err)
		}

		category := card.Classify(rec)
		if showAs != "" {
			if category, err = card.ParseCategory(showAs); err != nil {
				return err
			}
		}

		schemas, err := loadSchemas()
		if err != nil {
			return err
		}
		v := validator.NewValidator(schemas)

		var issues []validator.Issue
		if category == card.Unknown {
			issues = v.ValidateRecord(rec)
		} else {
			issues = v.ValidateAs(rec, category)
		}

		art := ""
		if !showNoArt {
			art = cardArt(cardPath)
		}

		infoWidth := terminalWidth() - showWidth - 8
		info := cardInfo(filepath.Base(cardPath), rec, category, issues, infoWidth)

		out := cmd.OutOrStdout()
		fmt.Fprintln(out)
		if art == "" {
			for _, line := range info {
				fmt.Fprintf(out, "  %s\n", line)
			}
		} else {
			fmt.Fprint(out, render.SideBySide(art, info, 4))
		}
		fmt.Fprintln(out)

		return nil
	},
}

func init() {
	RootCmd.AddCommand(showCmd)

	showCmd.Flags().StringVarP(&showImage, "image", "i", "", "Image to render instead of looking one up")
	showCmd.Flags().IntVarP(&showWidth, "width", "w", 32, "Width of the ANSI art in terminal cells")
	showCmd.Flags().StringVar(&showAs, "as", "", "Validate as this category instead of classifying the card")
	showCmd.Flags().BoolVar(&showNoArt, "no-art", false, "Do not render ANSI art")
}

// cardArt renders the card's image, or returns "" when there is none
func cardArt(cardPath string) string {
	imagePath := showImage
	if imagePath == "" {
		found, err := render.FindImage(cardPath)
		if err != nil {
			logger.Debug().Err(err).Msg("no card image")
			return ""
		}
		imagePath = found
	}

	img, err := render.LoadImage(imagePath)
	if err != nil {
		logger.Warn().Err(err).Str("path", imagePath).Msg("could not render card image")
		return ""
	}

	width := showWidth
	if width < 8 {
		width = 8
	}
	// Cards are 63x88mm; one cell is roughly twice as tall as it is wide
	height := width * 88 / 63 / 2
	return render.ImageToANSI(img, width, height, !colorize.NoColor)
}

// cardInfo builds the labelled lines shown beside the art
func cardInfo(file string, rec card.Record, category card.Category, issues []validator.Issue, width int) []string {
	label := func(s string) string { return colorize.CyanString("%-10s", s) }

	var lines []string
	name := rec.Name()
	if name == "" {
		name = "(unnamed)"
	}
	lines = append(lines, label("Card:")+colorize.HiWhiteString(name))
	lines = append(lines, label("File:")+file)

	if category == card.Unknown {
		lines = append(lines, label("Category:")+colorize.YellowString("unknown (%s)", rec.DescribeCardType()))
	} else {
		lines = append(lines, label("Category:")+colorize.HiWhiteString(string(category)))
	}
	if supertype := rec.Supertype(); supertype != "" {
		lines = append(lines, label("Supertype:")+supertype)
	}
	if subtypes := rec.Subtypes(); len(subtypes) > 0 {
		lines = append(lines, label("Subtypes:")+strings.Join(subtypes, " · "))
	}
	if hp, ok := rec["hp"]; ok {
		lines = append(lines, label("HP:")+fmt.Sprint(hp))
	}

	lines = append(lines, "")
	if len(issues) == 0 {
		lines = append(lines, label("Status:")+colorize.GreenString("✅ valid"))
		return lines
	}

	lines = append(lines, label("Status:")+colorize.RedString("❌ %d issue(s)", len(issues)))
	for _, issue := range issues {
		for i, line := range render.WrapText(issue.String(), width) {
			prefix := "  - "
			if i > 0 {
				prefix = "    "
			}
			lines = append(lines, prefix+line)
		}
	}
	return lines
}
