package server

import (
	"encoding/xml"
	"fmt"
	"net/http"
)

// searchResults is the Kodi search response document.
type searchResults struct {
	XMLName  xml.Name       `xml:"results"`
	Sorted   string         `xml:"sorted,attr"`
	Entities []searchEntity `xml:"entity"`
}

type searchEntity struct {
	Title string `xml:"title"`
	URL   string `xml:"url"`
}

// detailsDoc is the Kodi details response document. Optional upstream fields
// are omitted rather than defaulted.
type detailsDoc struct {
	XMLName       xml.Name     `xml:"details"`
	Title         string       `xml:"title"`
	Rating        string       `xml:"rating,omitempty"`
	Votes         string       `xml:"votes,omitempty"`
	Year          string       `xml:"year,omitempty"`
	Plot          string       `xml:"plot,omitempty"`
	OriginalTitle string       `xml:"original_title,omitempty"`
	Directors     []string     `xml:"director"`
	Thumb         string       `xml:"thumb,omitempty"`
	Genres        []string     `xml:"genre"`
	Actors        []actorEntry `xml:"actor"`
	Countries     []string     `xml:"country"`
}

type actorEntry struct {
	Name  string `xml:"name"`
	Thumb string `xml:"thumb,omitempty"`
}

func writeXML(w http.ResponseWriter, status int, doc any) error {
	body, err := xml.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal xml: %w", err)
	}
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(xml.Header)); err != nil {
		return err
	}
	_, err = w.Write(body)
	return err
}
