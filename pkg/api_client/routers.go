package api_client

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/handler"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/helper/problem"
	"github.com/loopfz/gadgeto/tonic"
	"github.com/wI2L/fizz"
	"github.com/wI2L/fizz/openapi"
	"golang.org/x/time/rate"
)

var (
	apiVersionHeader = fizz.Header(
		"API-Version",
		"Versão da API na resposta",
		"",
	)

	notFoundResponse = fizz.Response(
		"404",
		"Not Found",
		problem.APIError{},
		nil,
		nil,
	)

	conflictResponse = fizz.Response(
		"409",
		"Sessão ainda não está pronta",
		problem.APIError{},
		nil,
		nil,
	)

	tooManyRequestsResponse = fizz.Response(
		"429",
		"Too Many Requests",
		problem.APIError{},
		nil,
		nil,
	)
)

// RouterOptions holds the optional parts of the router
type RouterOptions struct {
	// RenderLimiter throttles the render routes; nil disables throttling
	RenderLimiter *rate.Limiter
	// Metrics is served on /metrics when set
	Metrics http.Handler
}

func NewRouter(apiVersion string, cursos *handler.CursosController, configs *handler.ConfigController, opts RouterOptions) *fizz.Fizz {
	g := gin.Default()

	// The fragment is embedded by pages on other origins
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "API-Version"}
	config.ExposeHeaders = []string{"API-Version"}
	g.Use(cors.New(config))

	g.Use(APIVersionMiddleware(apiVersion))
	f := fizz.NewFromEngine(g)

	gen := f.Generator()
	gen.API().Components.Headers["API-Version"] = &openapi.HeaderOrRef{
		Header: &openapi.Header{
			Description: "Versão da API na resposta",
			Schema: &openapi.SchemaOrRef{
				Schema: &openapi.Schema{
					Type:    "string",
					Example: "1.0.0",
				},
			},
		},
	}

	info := &openapi.Info{
		Title:       "Cursos Estude API v1",
		Description: "Lista de cursos de um site WordPress Estude e configuração dos blocos que a exibem",
		Version:     apiVersion,
	}

	root := f.Group("/v1", "API v1", "Cursos API V1 routes")

	render := root.Group("", "Render", "Fragmentos HTML de cursos")
	if opts.RenderLimiter != nil {
		render.Use(RateLimitMiddleware(opts.RenderLimiter))
	}

	// GET /v1/cursos
	render.GET("/cursos",
		[]fizz.OperationOption{
			fizz.ID("renderCursos"),
			fizz.Summary("Renderiza cursos"),
			fizz.Description("Busca até 5 cursos aleatórios do endpoint, filtrados por unidade, modalidade e nível, e devolve o fragmento HTML. Falhas são devolvidas como fragmento de erro com status 200."),
			apiVersionHeader,
			tooManyRequestsResponse,
		},
		tonic.Handler(cursos.RenderCursos, 200),
	)

	// GET /v1/blocos/:id/render
	render.GET("/blocos/:id/render",
		[]fizz.OperationOption{
			fizz.ID("renderBlock"),
			fizz.Summary("Renderiza um bloco salvo"),
			apiVersionHeader,
			notFoundResponse,
			tooManyRequestsResponse,
		},
		tonic.Handler(cursos.RenderBlock, 200),
	)

	data := root.Group("", "Cursos", "Cursos normalizados e blocos salvos")

	// GET /v1/cursos.json
	data.GET("/cursos.json",
		[]fizz.OperationOption{
			fizz.ID("listCursos"),
			fizz.Summary("Lista cursos normalizados"),
			apiVersionHeader,
			fizz.Response("502", "Bad Gateway", problem.APIError{}, nil, nil),
		},
		tonic.Handler(cursos.ListCursos, 200),
	)

	// GET /v1/blocos
	data.GET("/blocos",
		[]fizz.OperationOption{
			fizz.ID("listBlocks"),
			fizz.Summary("Lista blocos salvos"),
			apiVersionHeader,
		},
		tonic.Handler(cursos.ListBlocks, 200),
	)

	// GET /v1/blocos/:id
	data.GET("/blocos/:id",
		[]fizz.OperationOption{
			fizz.ID("getBlock"),
			fizz.Summary("Atributos de um bloco salvo"),
			apiVersionHeader,
			notFoundResponse,
		},
		tonic.Handler(cursos.GetBlock, 200),
	)

	// GET /v1/endpoints/validacao
	data.GET("/endpoints/validacao",
		[]fizz.OperationOption{
			fizz.ID("validateEndpoint"),
			fizz.Summary("Valida um endpoint"),
			fizz.Description("Consulta {endpoint}wp-json e verifica as rotas de cursos, unidade, modalidade e nivel."),
			apiVersionHeader,
		},
		tonic.Handler(cursos.ValidateEndpoint, 200),
	)

	sessions := root.Group("/configuracoes", "Configuração", "Sessões de configuração de blocos")

	// POST /v1/configuracoes
	sessions.POST("",
		[]fizz.OperationOption{
			fizz.ID("createSession"),
			fizz.Summary("Abre uma sessão de configuração"),
			fizz.Description("Com blockId, restaura o bloco salvo e carrega os vocabulários sem validar o endpoint novamente."),
			apiVersionHeader,
			notFoundResponse,
		},
		tonic.Handler(configs.CreateSession, 201),
	)

	// GET /v1/configuracoes/:id
	sessions.GET("/:id",
		[]fizz.OperationOption{
			fizz.ID("getSession"),
			fizz.Summary("Estado da sessão"),
			apiVersionHeader,
			notFoundResponse,
		},
		tonic.Handler(configs.GetSession, 200),
	)

	// POST /v1/configuracoes/:id/endpoint
	sessions.POST("/:id/endpoint",
		[]fizz.OperationOption{
			fizz.ID("commitEndpoint"),
			fizz.Summary("Confirma um endpoint"),
			fizz.Description("Inicia a validação do endpoint e o carregamento dos vocabulários. Uma nova confirmação cancela a anterior."),
			apiVersionHeader,
			notFoundResponse,
		},
		tonic.Handler(configs.CommitEndpoint, 202),
	)

	// PUT /v1/configuracoes/:id/filtros
	sessions.PUT("/:id/filtros",
		[]fizz.OperationOption{
			fizz.ID("setFilters"),
			fizz.Summary("Seleciona filtros de uma taxonomia"),
			apiVersionHeader,
			notFoundResponse,
			conflictResponse,
		},
		tonic.Handler(configs.SetFilters, 200),
	)

	// POST /v1/configuracoes/:id/salvar
	sessions.POST("/:id/salvar",
		[]fizz.OperationOption{
			fizz.ID("saveBlock"),
			fizz.Summary("Salva os atributos do bloco"),
			apiVersionHeader,
			notFoundResponse,
			conflictResponse,
		},
		tonic.Handler(configs.SaveBlock, 200),
	)

	f.GET("/v1/openapi.json", []fizz.OperationOption{}, f.OpenAPI(info, "json"))

	if opts.Metrics != nil {
		f.Engine().GET("/metrics", gin.WrapH(opts.Metrics))
	}

	return f
}

// ProblemErrorHook turns handler errors into RFC 7807 responses
func ProblemErrorHook(c *gin.Context, err error) (int, interface{}) {
	c.Header("Content-Type", "application/problem+json")

	var apiErr problem.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status, apiErr
	}
	var bindErr tonic.BindError
	if errors.As(err, &bindErr) {
		bad := problem.NewBadRequest(c.Request.URL.Path, bindErr.Error())
		return bad.Status, bad
	}

	internal := problem.NewInternalServerError(err.Error())
	return internal.Status, internal
}

type apiVersionWriter struct {
	gin.ResponseWriter
	version string
}

func (w *apiVersionWriter) WriteHeader(code int) {
	if code >= 200 && code < 300 {
		w.Header().Set("API-Version", w.version)
	}
	w.ResponseWriter.WriteHeader(code)
}

func APIVersionMiddleware(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer = &apiVersionWriter{c.Writer, version}
		c.Next()
	}
}

// RateLimitMiddleware rejects requests beyond the limiter budget with a 429 problem
func RateLimitMiddleware(l *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow() {
			tooMany := problem.NewTooManyRequests("Muitas requisições, tente novamente em instantes")
			c.Header("Content-Type", "application/problem+json")
			c.AbortWithStatusJSON(tooMany.Status, tooMany)
			return
		}
		c.Next()
	}
}
