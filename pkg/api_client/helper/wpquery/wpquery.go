package wpquery

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ifrs/cursos-estude-api/pkg/api_client/models"
	"github.com/samber/lo"
)

const (
	// CoursesPerPage is the number of courses requested per render
	CoursesPerPage = 5
	// VocabularyPerPage caps every vocabulary request
	VocabularyPerPage = 100

	discoveryPath = "wp-json"
	restPrefix    = "wp-json/wp/v2/"
)

var (
	// ErrEndpointMissing is returned for a blank endpoint
	ErrEndpointMissing = errors.New("endpoint não configurado")
	// ErrEndpointInvalid is returned for an endpoint that is not an absolute http(s) URL
	ErrEndpointInvalid = errors.New("endpoint não é uma URL http(s) válida")
)

// NormalizeEndpoint trims the endpoint and makes it end with exactly one "/"
func NormalizeEndpoint(raw string) (string, error) {
	ep := strings.TrimSpace(raw)
	if ep == "" {
		return "", ErrEndpointMissing
	}
	u, err := url.Parse(ep)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", ErrEndpointInvalid
	}
	return strings.TrimRight(ep, "/") + "/", nil
}

var (
	tagRe     = regexp.MustCompile(`(?s)<[^>]*>`)
	octetRe   = regexp.MustCompile(`%[a-fA-F0-9]{2}`)
	spaceRe   = regexp.MustCompile(`[\r\n\t ]+`)
	scriptRe  = regexp.MustCompile(`(?is)<(script|style)[^>]*?>.*?</(script|style)>`)
	angleRepl = strings.NewReplacer("<", "", ">", "")
)

// SanitizeIdentifier reduces an identifier to plain single-line text.
// The second return value is false when nothing usable remains.
func SanitizeIdentifier(id string) (string, bool) {
	if !utf8.ValidString(id) {
		return "", false
	}
	s := scriptRe.ReplaceAllString(id, "")
	s = tagRe.ReplaceAllString(s, "")
	s = angleRepl.Replace(s)
	s = octetRe.ReplaceAllString(s, "")
	s = spaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	return s, s != ""
}

// SanitizeIdentifiers keeps the identifiers that survive sanitization, in input order
func SanitizeIdentifiers(ids []string) []string {
	return lo.FilterMap(ids, func(id string, _ int) (string, bool) {
		return SanitizeIdentifier(id)
	})
}

// CoursesURL builds the feed request for an already normalized endpoint
func CoursesURL(endpoint string, filters models.FilterSelection) string {
	var b strings.Builder
	b.WriteString(endpoint)
	b.WriteString(restPrefix)
	b.WriteString("cursos?_embed&per_page=" + strconv.Itoa(CoursesPerPage) + "&orderby=rand")
	for _, t := range models.Taxonomies {
		ids := SanitizeIdentifiers(filters.IDs(t))
		if len(ids) == 0 {
			continue
		}
		escaped := lo.Map(ids, func(id string, _ int) string { return url.QueryEscape(id) })
		b.WriteString("&" + string(t) + "=" + strings.Join(escaped, ","))
	}
	return b.String()
}

// DiscoveryURL is the capability discovery document of an endpoint
func DiscoveryURL(endpoint string) string {
	return endpoint + discoveryPath
}

// VocabularyURL lists the terms of one taxonomy with only id and name
func VocabularyURL(endpoint string, t models.Taxonomy) string {
	return endpoint + restPrefix + string(t) + "?per_page=" + strconv.Itoa(VocabularyPerPage) + "&_fields=id,name"
}

// CacheKey fingerprints an endpoint and a filter selection. The identifiers of each
// taxonomy are compared as sets.
func CacheKey(endpoint string, filters models.FilterSelection) string {
	h := sha256.New()
	h.Write([]byte(endpoint))
	for _, t := range models.Taxonomies {
		ids := lo.Uniq(SanitizeIdentifiers(filters.IDs(t)))
		sort.Strings(ids)
		h.Write([]byte{0})
		h.Write([]byte(t))
		for _, id := range ids {
			h.Write([]byte{0x1f})
			h.Write([]byte(id))
		}
	}
	return "cursos_" + hex.EncodeToString(h.Sum(nil))
}
