package models

import "strings"

// CursosParams are the render call attributes. Each taxonomy takes a comma separated
// list of term ids.
type CursosParams struct {
	Endpoint   string `query:"endpoint" description:"Endereço base do site WordPress" example:"https://estude.example.org/"`
	Unidade    string `query:"unidade" description:"Ids de unidade separados por vírgula" example:"12,13"`
	Modalidade string `query:"modalidade" description:"Ids de modalidade separados por vírgula"`
	Nivel      string `query:"nivel" description:"Ids de nível separados por vírgula"`
}

// Filters returns the selection carried by the query
func (p *CursosParams) Filters() FilterSelection {
	return FilterSelection{
		Units:      splitIDs(p.Unidade),
		Modalities: splitIDs(p.Modalidade),
		Levels:     splitIDs(p.Nivel),
	}
}

func splitIDs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}

type BlockPath struct {
	ID string `path:"id" validate:"required"`
}

type ValidationParams struct {
	Endpoint string `query:"endpoint" validate:"required" example:"https://estude.example.org/"`
}

// CreateSessionBody opens a configuration session, optionally restoring a saved block
type CreateSessionBody struct {
	BlockID string `json:"blockId,omitempty"`
}

type SessionParams struct {
	ID   string `path:"id" validate:"required"`
	Wait bool   `query:"wait" description:"Aguarda o fim da validação e do carregamento dos vocabulários"`
}

type CommitBody struct {
	ID       string `path:"id" validate:"required"`
	Endpoint string `json:"endpoint" example:"https://estude.example.org/"`
}

type FilterBody struct {
	ID       string   `path:"id" validate:"required"`
	Taxonomy string   `json:"taxonomy" example:"unidade"`
	IDs      []string `json:"ids"`
}

type SaveBody struct {
	ID      string `path:"id" validate:"required"`
	BlockID string `json:"blockId,omitempty"`
}
