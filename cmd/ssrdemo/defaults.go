package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/oliverbestmann/ssr/ssr"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

func PrintDefaults(ctx *cli.Context) error {
	settings, err := loadSettings(ctx)
	if err != nil {
		return err
	}

	writeSettingsTable(os.Stdout, settings)

	buf, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	fmt.Printf("\n%s\n", buf)

	return nil
}

// loadSettings returns the settings from the file given by the global
// settings flag, or the defaults.
func loadSettings(ctx *cli.Context) (ssr.Settings, error) {
	path := ctx.GlobalString("settings")
	if path == "" {
		return ssr.DefaultSettings(), nil
	}

	return ssr.LoadSettingsFile(path)
}

func writeSettingsTable(w io.Writer, settings ssr.Settings) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Setting", "Value"})
	table.AppendBulk(settingsRows(settings))
	table.Render()
}

// settingsRows lists every field of the settings with its json name.
func settingsRows(settings ssr.Settings) [][]string {
	value := reflect.ValueOf(settings)
	typ := value.Type()

	var rows [][]string

	for idx := range typ.NumField() {
		field := typ.Field(idx)

		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" {
			name = field.Name
		}

		rows = append(rows, []string{name, fmt.Sprint(value.Field(idx).Interface())})
	}

	return rows
}
