package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/helper/problem"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/models"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/services"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/store"
	"github.com/sirupsen/logrus"
)

// maxWait bounds GET /v1/configuracoes/:id?wait=true
const maxWait = 30 * time.Second

type ConfigController struct {
	Sessions *services.WorkflowManager
	Blocks   store.BlockStore
	Log      logrus.FieldLogger
}

func NewConfigController(sessions *services.WorkflowManager, blocks store.BlockStore, log logrus.FieldLogger) *ConfigController {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ConfigController{Sessions: sessions, Blocks: blocks, Log: log.WithField("component", "config")}
}

// POST /v1/configuracoes
func (cc *ConfigController) CreateSession(c *gin.Context, body *models.CreateSessionBody) (*models.WorkflowSnapshot, error) {
	var block *models.Block
	if body != nil && body.BlockID != "" {
		b, err := cc.Blocks.Get(c.Request.Context(), body.BlockID)
		if err != nil {
			return nil, blockProblem(body.BlockID, err)
		}
		block = &b
	}
	wf := cc.Sessions.Create(block)
	s := wf.Snapshot()
	return &s, nil
}

// GET /v1/configuracoes/:id
func (cc *ConfigController) GetSession(c *gin.Context, p *models.SessionParams) (*models.WorkflowSnapshot, error) {
	wf, err := cc.session(p.ID)
	if err != nil {
		return nil, err
	}
	if !p.Wait {
		s := wf.Snapshot()
		return &s, nil
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), maxWait)
	defer cancel()
	s, _ := wf.Wait(ctx)
	return &s, nil
}

// POST /v1/configuracoes/:id/endpoint
func (cc *ConfigController) CommitEndpoint(c *gin.Context, body *models.CommitBody) (*models.WorkflowSnapshot, error) {
	wf, err := cc.session(body.ID)
	if err != nil {
		return nil, err
	}
	if err := wf.Commit(body.Endpoint); err != nil {
		return nil, problem.NewBadRequest(body.ID, "Informe o endpoint", problem.InvalidParam{Name: "endpoint", Reason: err.Error()})
	}
	s := wf.Snapshot()
	return &s, nil
}

// PUT /v1/configuracoes/:id/filtros
func (cc *ConfigController) SetFilters(c *gin.Context, body *models.FilterBody) (*models.WorkflowSnapshot, error) {
	wf, err := cc.session(body.ID)
	if err != nil {
		return nil, err
	}
	t, err := models.ParseTaxonomy(body.Taxonomy)
	if err != nil {
		return nil, problem.NewBadRequest(body.ID, err.Error(), problem.InvalidParam{Name: "taxonomy", Reason: err.Error()})
	}
	if err := wf.SetFilters(t, body.IDs); err != nil {
		switch {
		case errors.Is(err, services.ErrNotReady):
			return nil, problem.NewConflict(body.ID, err.Error())
		case errors.Is(err, services.ErrUnknownFilter):
			return nil, problem.NewBadRequest(body.ID, err.Error(), problem.InvalidParam{Name: "ids", Reason: err.Error()})
		}
		return nil, problem.NewInternalServerError(err.Error())
	}
	s := wf.Snapshot()
	return &s, nil
}

// POST /v1/configuracoes/:id/salvar
func (cc *ConfigController) SaveBlock(c *gin.Context, body *models.SaveBody) (*models.Block, error) {
	wf, err := cc.session(body.ID)
	if err != nil {
		return nil, err
	}
	id := body.BlockID
	if id == "" {
		id = uuid.New().String()
	}
	block, err := wf.Block(id)
	if err != nil {
		return nil, problem.NewConflict(body.ID, err.Error())
	}
	if err := cc.Blocks.Save(c.Request.Context(), block); err != nil {
		cc.Log.WithError(err).WithField("block", id).Error("saving block failed")
		return nil, problem.NewInternalServerError(err.Error())
	}
	cc.Log.WithFields(logrus.Fields{"block": id, "endpoint": block.Endpoint}).Info("block saved")
	return &block, nil
}

func (cc *ConfigController) session(id string) (*services.Workflow, error) {
	wf, err := cc.Sessions.Get(id)
	if err != nil {
		return nil, problem.NewNotFound(id, err.Error())
	}
	return wf, nil
}
