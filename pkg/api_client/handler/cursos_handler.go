package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/helper/fetch"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/helper/problem"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/helper/wpquery"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/models"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/services"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/store"
)

const htmlContentType = "text/html; charset=utf-8"

type CursosController struct {
	Cursos    *services.CursosService
	Validator services.EndpointValidator
	Blocks    store.BlockStore
}

func NewCursosController(cursos *services.CursosService, validator services.EndpointValidator, blocks store.BlockStore) *CursosController {
	return &CursosController{Cursos: cursos, Validator: validator, Blocks: blocks}
}

/* ------------------------- RENDER ------------------------- */

// GET /v1/cursos?endpoint=...&unidade=...
// Always 200: failures are rendered inline.
func (cc *CursosController) RenderCursos(c *gin.Context, p *models.CursosParams) error {
	html := cc.Cursos.Render(c.Request.Context(), p.Endpoint, p.Filters())
	c.Data(http.StatusOK, htmlContentType, []byte(html))
	return nil
}

// GET /v1/cursos.json?endpoint=...
func (cc *CursosController) ListCursos(c *gin.Context, p *models.CursosParams) ([]models.Course, error) {
	courses, err := cc.Cursos.Courses(c.Request.Context(), p.Endpoint, p.Filters())
	if err != nil {
		return nil, coursesProblem(p.Endpoint, err)
	}
	return courses, nil
}

// GET /v1/blocos/:id/render
func (cc *CursosController) RenderBlock(c *gin.Context, p *models.BlockPath) error {
	block, err := cc.Blocks.Get(c.Request.Context(), p.ID)
	if err != nil {
		return blockProblem(p.ID, err)
	}
	html := cc.Cursos.Render(c.Request.Context(), block.Endpoint, block.Filters)
	c.Data(http.StatusOK, htmlContentType, []byte(html))
	return nil
}

/* ------------------------- BLOCKS ------------------------- */

// GET /v1/blocos/:id
func (cc *CursosController) GetBlock(c *gin.Context, p *models.BlockPath) (*models.Block, error) {
	block, err := cc.Blocks.Get(c.Request.Context(), p.ID)
	if err != nil {
		return nil, blockProblem(p.ID, err)
	}
	return &block, nil
}

// GET /v1/blocos
func (cc *CursosController) ListBlocks(c *gin.Context) ([]models.Block, error) {
	blocks, err := cc.Blocks.List(c.Request.Context())
	if err != nil {
		return nil, problem.NewInternalServerError(err.Error())
	}
	return blocks, nil
}

/* ------------------------- VALIDATION ------------------------- */

// GET /v1/endpoints/validacao?endpoint=...
// An invalid endpoint is still a 200 with the report explaining why.
func (cc *CursosController) ValidateEndpoint(c *gin.Context, p *models.ValidationParams) (*models.ValidationReport, error) {
	ep, err := wpquery.NormalizeEndpoint(p.Endpoint)
	if err != nil {
		return nil, problem.NewBadRequest(p.Endpoint, err.Error(), problem.InvalidParam{Name: "endpoint", Reason: err.Error()})
	}
	report, _ := cc.Validator.Validate(c.Request.Context(), ep)
	return report, nil
}

func coursesProblem(endpoint string, err error) error {
	switch {
	case errors.Is(err, wpquery.ErrEndpointMissing), errors.Is(err, wpquery.ErrEndpointInvalid):
		return problem.NewBadRequest(endpoint, err.Error(), problem.InvalidParam{Name: "endpoint", Reason: err.Error()})
	case errors.Is(err, fetch.ErrFetchFailed):
		return problem.NewBadGateway(endpoint, "Erro ao buscar dados do endpoint")
	case errors.Is(err, services.ErrNormalizationFailed):
		return problem.NewBadGateway(endpoint, "Resposta inválida do endpoint")
	}
	return problem.NewInternalServerError(err.Error())
}

func blockProblem(id string, err error) error {
	if errors.Is(err, store.ErrBlockNotFound) {
		return problem.NewNotFound(id, "Bloco não encontrado")
	}
	return problem.NewInternalServerError(err.Error())
}
