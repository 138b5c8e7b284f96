package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/dmitrijs2005/bladmin/internal/client/models"
)

var errInvalidJSON = errors.New("input is not valid JSON")

// readSource loads a file addressed by a path or afs URL and returns its
// contents with the base file name.
func (a *App) readSource(ctx context.Context, location string) ([]byte, string, error) {
	data, err := a.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", location, err)
	}
	return data, path.Base(location), nil
}

// writeDownload stores an export. A location ending in "/" is treated as a
// directory and receives the server-provided file name.
func (a *App) writeDownload(ctx context.Context, location string, dl *models.Download) (string, error) {
	dest := location
	if strings.HasSuffix(location, "/") {
		dest = location + exportName(dl.FileName)
	}
	if err := a.fs.Upload(ctx, dest, 0o644, bytes.NewReader(dl.Data)); err != nil {
		return "", fmt.Errorf("write %s: %w", dest, err)
	}
	return dest, nil
}

// exportName keeps only the base of a server-suggested file name so an
// export never leaves the chosen directory.
func exportName(suggested string) string {
	name := path.Base(strings.ReplaceAll(suggested, `\`, "/"))
	switch name {
	case ".", "..", "/":
		return "export.bin"
	}
	return name
}

// readJSON takes a JSON body from the location in args, or from the
// terminal when no location is given.
func (a *App) readJSON(ctx context.Context, args []string, prompt string) (json.RawMessage, error) {
	var data []byte
	if len(args) > 0 {
		b, _, err := a.readSource(ctx, args[0])
		if err != nil {
			return nil, err
		}
		data = b
	} else {
		s, err := getMultiline(a.reader, prompt, a.out)
		if err != nil {
			return nil, err
		}
		data = []byte(s)
	}

	data = bytes.TrimSpace(data)
	if !json.Valid(data) {
		return nil, errInvalidJSON
	}
	return json.RawMessage(data), nil
}
