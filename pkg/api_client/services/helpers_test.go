package services

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/ifrs/cursos-estude-api/pkg/api_client/helper/fetch"
	"github.com/sirupsen/logrus"
)

// stubFetcher answers by URL prefix and counts calls
type stubFetcher struct {
	mu        sync.Mutex
	responses map[string]string
	errs      map[string]error
	calls     []string
	delay     time.Duration
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{responses: map[string]string{}, errs: map[string]error{}}
}

func (f *stubFetcher) on(url, body string) *stubFetcher {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[url] = body
	return f
}

func (f *stubFetcher) fail(url string, err error) *stubFetcher {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[url] = err
	return f
}

func (f *stubFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	delay := f.delay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, &fetch.FetchError{Kind: fetch.KindNetwork, URL: url, Err: ctx.Err()}
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for prefix, err := range f.errs {
		if strings.HasPrefix(url, prefix) {
			return nil, err
		}
	}
	for prefix, body := range f.responses {
		if strings.HasPrefix(url, prefix) {
			return []byte(body), nil
		}
	}
	return nil, &fetch.FetchError{Kind: fetch.KindStatus, URL: url, StatusCode: 404}
}

func (f *stubFetcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

const discoveryOK = `{"name":"Estude","routes":{
	"/":{},
	"/wp/v2/cursos":{},
	"/wp/v2/unidade":{},
	"/wp/v2/modalidade":{},
	"/wp/v2/nivel":{}
}}`

const feedTwoCourses = `[
  {
    "link": "https://estude.example.org/cursos/tecnico-em-informatica/",
    "title": {"rendered": "T&eacute;cnico em Inform&aacute;tica"},
    "_embedded": {"wp:term": [
      [{"taxonomy": "unidade", "name": "Campus Porto Alegre"}],
      [{"taxonomy": "modalidade", "name": "Presencial"}, {"taxonomy": "category", "name": "Sem categoria"}],
      [{"taxonomy": "nivel", "name": "T&eacute;cnico"}, {"taxonomy": "nivel", "name": "Integrado"}]
    ]},
    "meta_box": {"_curso_duracao": "4 anos", "_curso_carga_horaria": "3200"}
  },
  {
    "link": "https://estude.example.org/cursos/letras/",
    "title": {"rendered": "Letras"},
    "_embedded": {"wp:term": [[{"taxonomy": "modalidade", "name": "EAD"}]]}
  }
]`
