package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const googleBooksBase = "https://www.googleapis.com/books/v1/volumes"

// googleBooksClient has a short timeout so a slow lookup doesn't hang the
// new-post form.
var googleBooksClient = &http.Client{Timeout: 10 * time.Second}

type googleBooksVolumesResp struct {
	TotalItems int `json:"totalItems"`
	Items      []struct {
		VolumeInfo struct {
			Title      string   `json:"title"`
			Subtitle   string   `json:"subtitle"`
			Authors    []string `json:"authors"`
			Categories []string `json:"categories"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// BookMetadata is the subset of volume metadata used to prefill the post form.
type BookMetadata struct {
	Title      string
	Authors    string
	Categories []string
}

// FetchMetadataByISBN looks up title and authors for an ISBN via the Google
// Books API. Best-effort: the form works without it.
func FetchMetadataByISBN(isbn string) (*BookMetadata, error) {
	isbn = strings.ReplaceAll(strings.TrimSpace(isbn), "-", "")
	if isbn == "" {
		return nil, fmt.Errorf("isbn is required")
	}
	q := url.Values{}
	q.Set("q", "isbn:"+isbn)
	resp, err := googleBooksClient.Get(googleBooksBase + "?" + q.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google books returned %d", resp.StatusCode)
	}
	var data googleBooksVolumesResp
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	if data.TotalItems == 0 || len(data.Items) == 0 {
		return nil, fmt.Errorf("no volume found for isbn %s", isbn)
	}
	vi := data.Items[0].VolumeInfo
	meta := &BookMetadata{
		Title:      vi.Title,
		Authors:    strings.Join(vi.Authors, ", "),
		Categories: vi.Categories,
	}
	if vi.Subtitle != "" {
		meta.Title = meta.Title + ": " + vi.Subtitle
	}
	return meta, nil
}
