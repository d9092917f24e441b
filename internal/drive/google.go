package drive

import (
	"context"
	"fmt"
	"io"

	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const listFields = "nextPageToken, files(id, name, mimeType, modifiedTime, size)"

type googleSource struct {
	service  *gdrive.Service
	folderID string
}

// NewSource builds a read-only google drive source scoped to one
// folder, or to the account root when folderID is empty. credsJSON is
// a service account key document.
func NewSource(ctx context.Context, credsJSON []byte, folderID string) (Source, error) {
	service, err := gdrive.NewService(ctx,
		option.WithCredentialsJSON(credsJSON),
		option.WithScopes(gdrive.DriveReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("drive service: %w", err)
	}

	return &googleSource{
		service:  service,
		folderID: folderID,
	}, nil
}

func (gs *googleSource) ListFiles() ([]FileRecord, error) {
	parent := gs.folderID
	if parent == "" {
		parent = "root"
	}
	query := fmt.Sprintf("'%s' in parents and trashed = false", parent)

	var records []FileRecord
	pageToken := ""

	for {
		call := gs.service.Files.List().Q(query).Fields(listFields)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("drive list: %w", err)
		}

		for _, f := range resp.Files {
			records = append(records, FileRecord{
				ID:           f.Id,
				Name:         f.Name,
				MimeType:     f.MimeType,
				ModifiedTime: f.ModifiedTime,
				Size:         f.Size,
			})
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return records, nil
}

func (gs *googleSource) Fetch(fileID string, sink io.Writer) (int64, error) {
	resp, err := gs.service.Files.Get(fileID).Download()
	if err != nil {
		return 0, fmt.Errorf("drive fetch %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	nbytes, err := io.Copy(sink, resp.Body)
	if err != nil {
		return nbytes, fmt.Errorf("drive fetch %s: %w", fileID, err)
	}

	return nbytes, nil
}
