// Package drive mirrors the book tables as workbook files in a Google Drive
// folder, authenticated with a service account.
package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	goption "google.golang.org/api/option"

	"asdgest/internal/core"
	"asdgest/internal/export"
	"asdgest/internal/mirror"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type target struct {
	file  string
	sheet string
}

var targets = map[string]target{
	mirror.NameRicevute:  {export.FileRicevute, export.SheetRicevute},
	mirror.NamePrimaNota: {export.FilePrimaNota, export.SheetPrimaNota},
	mirror.NameSoci:      {export.FileSoci, export.SheetSoci},
}

// Client mirrors tables into a single Drive folder, one file per table,
// create-or-update by file name.
type Client struct {
	svc      *gdrive.Service
	folderID string
}

// NewFromEnv creates a Drive client from the ambient configuration.
// Required: GDRIVE_FOLDER_ID and either GDRIVE_SERVICE_ACCOUNT_JSON (inline
// credentials) or GDRIVE_SERVICE_ACCOUNT_FILE (path to the key file).
func NewFromEnv(ctx context.Context) (*Client, error) {
	folderID := strings.TrimSpace(os.Getenv("GDRIVE_FOLDER_ID"))
	if folderID == "" {
		return nil, errors.New("missing GDRIVE_FOLDER_ID")
	}

	var opts []goption.ClientOption
	switch {
	case strings.TrimSpace(os.Getenv("GDRIVE_SERVICE_ACCOUNT_JSON")) != "":
		opts = append(opts, goption.WithCredentialsJSON([]byte(os.Getenv("GDRIVE_SERVICE_ACCOUNT_JSON"))))
	case strings.TrimSpace(os.Getenv("GDRIVE_SERVICE_ACCOUNT_FILE")) != "":
		opts = append(opts, goption.WithCredentialsFile(strings.TrimSpace(os.Getenv("GDRIVE_SERVICE_ACCOUNT_FILE"))))
	default:
		return nil, errors.New("missing GDRIVE_SERVICE_ACCOUNT_JSON or GDRIVE_SERVICE_ACCOUNT_FILE")
	}
	opts = append(opts, goption.WithScopes(gdrive.DriveFileScope))

	svc, err := gdrive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("drive service: %w", err)
	}
	return &Client{svc: svc, folderID: folderID}, nil
}

// Save implements mirror.Mirror. An existing file with the same name in the
// folder is updated in place, otherwise a new one is created.
func (c *Client) Save(ctx context.Context, t core.Table, name string) error {
	tg, ok := targets[name]
	if !ok {
		return fmt.Errorf("unknown mirror table %q", name)
	}
	data, err := export.ExcelBytes(t, tg.sheet)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	fileID, err := c.findByName(ctx, tg.file)
	if err != nil {
		return err
	}
	if fileID != "" {
		_, err = c.svc.Files.Update(fileID, &gdrive.File{}).
			Media(strings.NewReader(string(data)), googleapi.ContentType(xlsxMIME)).
			Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("update %s: %w", tg.file, err)
		}
		return nil
	}
	_, err = c.svc.Files.Create(&gdrive.File{
		Name:     tg.file,
		Parents:  []string{c.folderID},
		MimeType: xlsxMIME,
	}).
		Media(strings.NewReader(string(data)), googleapi.ContentType(xlsxMIME)).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("create %s: %w", tg.file, err)
	}
	return nil
}

// Load implements mirror.Mirror. Files absent from the folder load as nil.
func (c *Client) Load(ctx context.Context) (mirror.State, error) {
	var state mirror.State
	for name, tg := range targets {
		fileID, err := c.findByName(ctx, tg.file)
		if err != nil {
			return mirror.State{}, err
		}
		if fileID == "" {
			continue
		}
		resp, err := c.svc.Files.Get(fileID).Context(ctx).Download()
		if err != nil {
			return mirror.State{}, fmt.Errorf("download %s: %w", tg.file, err)
		}
		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return mirror.State{}, fmt.Errorf("read %s: %w", tg.file, err)
		}
		t, err := export.ParseExcel(data, tg.sheet)
		if err != nil {
			return mirror.State{}, fmt.Errorf("parse %s: %w", tg.file, err)
		}
		switch name {
		case mirror.NameRicevute:
			state.Ricevute = &t
		case mirror.NamePrimaNota:
			state.PrimaNota = &t
		case mirror.NameSoci:
			state.Soci = &t
		}
	}
	return state, nil
}

func (c *Client) findByName(ctx context.Context, fileName string) (string, error) {
	query := fmt.Sprintf("name = '%s' and '%s' in parents and trashed = false",
		strings.ReplaceAll(fileName, "'", `\'`), c.folderID)
	list, err := c.svc.Files.List().
		Q(query).
		Fields("files(id, name)").
		PageSize(1).
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("list %s: %w", fileName, err)
	}
	if len(list.Files) == 0 {
		return "", nil
	}
	return list.Files[0].Id, nil
}
