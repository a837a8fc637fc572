// Command gentemplate writes the project import template workbook and,
// optionally, a small demo spreadsheet with a matching image archive.
// Usage: go run ./cmd/gentemplate [-out projects-template.xlsx] [-demo ./demo]
package main

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"flag"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/mrlokans/portfolio/internal/importers"
)

const defaultTemplatePath = "./projects-template.xlsx"

type demoProject struct {
	Title      string
	City       string
	Category   string
	Developer  string
	Amenities  string
	Config     string
	Thumbnail  string
	Gallery    string
	ImageColor color.RGBA
}

var demoProjects = []demoProject{
	{
		Title:      "Palm Grove Residency",
		City:       "Pune",
		Category:   "Residential",
		Developer:  "Greenline Builders",
		Amenities:  "Pool, Gym, Clubhouse",
		Config:     `[{"type":"2 BHK","size":"950 sqft","price":"85L"},{"type":"3 BHK","size":"1350 sqft","price":"1.2Cr"}]`,
		Thumbnail:  "palm-grove-front.png",
		Gallery:    "palm-grove-front.png, palm-grove-lobby.png",
		ImageColor: color.RGBA{R: 46, G: 139, B: 87, A: 255},
	},
	{
		Title:      "Harbour Point",
		City:       "Mumbai",
		Category:   "Commercial",
		Developer:  "Bayside Realty",
		Amenities:  "Parking | Food court",
		Config:     "Office floors from 2,000 sqft",
		Thumbnail:  "harbour-point.png",
		Gallery:    "harbour-point.png",
		ImageColor: color.RGBA{R: 30, G: 144, B: 255, A: 255},
	},
	{
		Title:      "Sea Breeze Villas",
		City:       "Goa",
		Category:   "Residential",
		Developer:  "Coastal Homes",
		Amenities:  "Private beach access",
		Config:     `[{"type":"Villa","size":"2400 sqft","price":"3.5Cr"}]`,
		Thumbnail:  "",
		Gallery:    "sea-breeze-1.png, sea-breeze-2.png",
		ImageColor: color.RGBA{R: 255, G: 165, B: 0, A: 255},
	},
}

func main() {
	outPath := flag.String("out", defaultTemplatePath, "path of the template workbook to write")
	demoDir := flag.String("demo", "", "also write projects.csv and images.zip demo files to this directory")
	flag.Parse()

	f, err := os.Create(*outPath)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", *outPath, err)
	}
	if err := importers.WriteTemplate(f); err != nil {
		f.Close()
		log.Fatalf("Failed to write template: %v", err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("Failed to close %s: %v", *outPath, err)
	}
	log.Printf("Template written to %s", *outPath)

	if *demoDir == "" {
		return
	}
	if err := os.MkdirAll(*demoDir, 0o755); err != nil {
		log.Fatalf("Failed to create demo directory: %v", err)
	}
	if err := writeDemoSheet(filepath.Join(*demoDir, "projects.csv")); err != nil {
		log.Fatalf("Failed to write demo spreadsheet: %v", err)
	}
	if err := writeDemoArchive(filepath.Join(*demoDir, "images.zip")); err != nil {
		log.Fatalf("Failed to write demo archive: %v", err)
	}
	log.Printf("Demo files written to %s (%d projects)", *demoDir, len(demoProjects))
}

func writeDemoSheet(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	rows := [][]string{{"Title", "City", "Category", "Developer", "Amenities", "Configurations", "Thumbnail", "Gallery"}}
	for _, p := range demoProjects {
		rows = append(rows, []string{p.Title, p.City, p.Category, p.Developer, p.Amenities, p.Config, p.Thumbnail, p.Gallery})
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Close()
}

func writeDemoArchive(path string) error {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	written := map[string]bool{}
	for _, p := range demoProjects {
		for _, name := range []string{p.Thumbnail, p.Gallery} {
			for _, ref := range splitRefs(name) {
				if written[ref] {
					continue
				}
				written[ref] = true

				w, err := zw.Create("images/" + ref)
				if err != nil {
					return err
				}
				if err := png.Encode(w, solidImage(p.ImageColor)); err != nil {
					return err
				}
			}
		}
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func splitRefs(s string) []string {
	var out []string
	r := csv.NewReader(bytes.NewBufferString(s))
	r.TrimLeadingSpace = true
	record, err := r.Read()
	if err != nil {
		return nil
	}
	for _, ref := range record {
		if ref != "" {
			out = append(out, ref)
		}
	}
	return out
}

func solidImage(c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
