package usecase

import (
	"context"
	"encoding/json"
	"errors"

	"matchscout/internal/modules/schema/domain"
	"matchscout/internal/modules/schema/dto"
	schemain "matchscout/internal/modules/schema/port/in"
	"matchscout/internal/modules/schema/service"
)

type Interactor struct {
	svc *service.SchemaService
}

func NewInteractor(svc *service.SchemaService) schemain.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context) ([]dto.SchemaInfo, error) {
	manifests, err := i.svc.Manifests(ctx)
	if err != nil {
		return nil, err
	}
	out := []dto.SchemaInfo{infoFromMetadata(domain.ReferenceMetadata(), true)}
	for _, manifest := range manifests {
		out = append(out, dto.SchemaInfo{
			Name:    manifest.Name,
			Season:  manifest.Season,
			Version: manifest.Version,
			Enabled: manifest.Enabled,
		})
	}
	return out, nil
}

func (i *Interactor) Describe(ctx context.Context, season string) (dto.SchemaInfo, error) {
	manifest, err := i.svc.Resolve(ctx, season)
	if errors.Is(err, domain.ErrSeasonNotFound) && season == domain.ReferenceSeason {
		return infoFromMetadata(domain.ReferenceMetadata(), true), nil
	}
	if err != nil {
		return dto.SchemaInfo{}, err
	}
	meta, err := i.svc.Metadata(ctx, manifest)
	if err != nil {
		return dto.SchemaInfo{}, err
	}
	return infoFromMetadata(meta, false), nil
}

func (i *Interactor) Check(ctx context.Context, season string) error {
	manifest, err := i.svc.Resolve(ctx, season)
	if errors.Is(err, domain.ErrSeasonNotFound) && season == domain.ReferenceSeason {
		return nil
	}
	if err != nil {
		return err
	}
	return i.svc.Check(ctx, manifest)
}

// DefaultPayload returns the season's fresh payload document, falling
// back to the built-in reference schema when no plugin serves the season.
func (i *Interactor) DefaultPayload(ctx context.Context, season string) (json.RawMessage, error) {
	manifest, err := i.svc.Resolve(ctx, season)
	if errors.Is(err, domain.ErrSeasonNotFound) {
		return domain.ReferenceDefaultPayload(), nil
	}
	if err != nil {
		return nil, err
	}
	return i.svc.DefaultPayload(ctx, manifest)
}

func infoFromMetadata(meta domain.Metadata, builtin bool) dto.SchemaInfo {
	return dto.SchemaInfo{
		Name:          meta.Name,
		Season:        meta.Season,
		Version:       meta.Version,
		SchemaVersion: meta.SchemaVersion,
		Builtin:       builtin,
		Enabled:       true,
	}
}
