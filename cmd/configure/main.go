package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/config"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/helper/fetch"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/models"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/services"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	command := NewConfigureCommand()
	if err := command.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type ConfigureOptions struct {
	BlockID  string
	Endpoint string
	Store    string
	Path     string
	Verbose  bool
}

func NewConfigureCommand() *cobra.Command {
	opts := &ConfigureOptions{}

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Configura um bloco de cursos",
		Long: `Valida o endpoint de um site WordPress Estude, carrega unidades, modalidades e níveis,
permite escolher os filtros e salva os atributos do bloco.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&opts.BlockID, "block", "", "Id do bloco a editar (um novo id é gerado quando vazio)")
	cmd.Flags().StringVar(&opts.Endpoint, "endpoint", "", "Endpoint inicial, dispensa a primeira pergunta")
	cmd.Flags().StringVar(&opts.Store, "store", "", "Armazenamento dos blocos: yaml ou sqlite (padrão BLOCK_STORE)")
	cmd.Flags().StringVar(&opts.Path, "path", "", "Arquivo do armazenamento (padrão BLOCK_STORE_PATH)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Mostra o log das requisições")

	return cmd
}

func (o *ConfigureOptions) Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if o.Store != "" {
		cfg.BlockStore = o.Store
		if o.Path == "" {
			cfg.BlockStorePath = ""
		}
	}
	if o.Path != "" {
		cfg.BlockStorePath = o.Path
	}
	if cfg.BlockStorePath == "" {
		cfg.BlockStorePath = config.DefaultBlockStorePath(cfg.BlockStore)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)
	if o.Verbose {
		log.SetOutput(os.Stderr)
		log.SetLevel(logrus.DebugLevel)
	}

	blocks, err := store.Open(cfg.BlockStore, cfg.BlockStorePath)
	if err != nil {
		return err
	}
	defer blocks.Close()

	fetcher := fetch.NewHTTPFetcher(cfg.FetchTimeout)
	id := o.BlockID
	if id == "" {
		id = uuid.New().String()
	}
	wf := services.NewWorkflow(id, services.NewValidatorService(fetcher, log, nil), services.NewVocabularyService(fetcher, log, nil), log, nil)
	defer wf.Close()

	if o.BlockID != "" {
		block, err := blocks.Get(ctx, o.BlockID)
		switch {
		case err == nil:
			wf.Restore(block)
			if wf.Activate() {
				if _, err := waitWithSpinner(ctx, wf, "Carregando dados de "+block.Endpoint); err != nil {
					return err
				}
			}
		case errors.Is(err, store.ErrBlockNotFound):
			fmt.Println(mutedStyle.Render("Bloco " + o.BlockID + " ainda não existe, será criado."))
		default:
			return err
		}
	}

	snap := wf.Snapshot()
	candidate := o.Endpoint
	for snap.State != models.StateReady {
		if snap.State == models.StateInvalid {
			fmt.Println(describeSnapshot(snap))
		}
		if candidate == "" {
			candidate, err = promptEndpoint(firstNonEmpty(snap.Candidate, snap.Endpoint))
			if err != nil {
				return err
			}
		}
		if err := wf.Commit(candidate); err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			candidate = ""
			continue
		}
		candidate = ""
		if snap, err = waitWithSpinner(ctx, wf, "Validando endpoint"); err != nil {
			return err
		}
	}

	selection, err := promptFilters(snap)
	if err != nil {
		return err
	}
	for _, t := range models.Taxonomies {
		if err := wf.SetFilters(t, selection.IDs(t)); err != nil {
			return err
		}
	}

	block, err := wf.Block(id)
	if err != nil {
		return err
	}
	if err := blocks.Save(ctx, block); err != nil {
		return err
	}
	fmt.Println(describeBlock(block, snap.Vocabularies))
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
