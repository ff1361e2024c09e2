package models

// Course is one displayable entry of the remote "cursos" feed
type Course struct {
	Link          string   `json:"link"`
	Title         string   `json:"title"`
	Units         []string `json:"unidades"`
	Modalities    []string `json:"modalidades"`
	Levels        []string `json:"niveis"`
	DurationLabel *string  `json:"duracao,omitempty"`
	WorkloadHours *float64 `json:"cargaHoraria,omitempty"`
}
