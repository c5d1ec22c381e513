package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/hmpi/internal/client/client"
	"github.com/dmitrijs2005/hmpi/internal/client/models"
	"golang.org/x/sync/errgroup"
)

type PredictionService interface {
	// Bundle loads every prediction view at once and fails as a whole.
	Bundle(ctx context.Context) (*models.PredictionBundle, error)
	Trend(ctx context.Context, sampleID string) (*models.SampleTrend, error)
}

type predictionService struct {
	client client.Predictor
}

func NewPredictionService(c client.Predictor) PredictionService {
	return &predictionService{client: c}
}

func (s *predictionService) Bundle(ctx context.Context) (*models.PredictionBundle, error) {
	var b models.PredictionBundle
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		v, err := s.client.Predictions(ctx)
		if err != nil {
			return fmt.Errorf("predictions: %w", err)
		}
		b.Data = *v
		return nil
	})
	g.Go(func() error {
		v, err := s.client.Comparison(ctx)
		if err != nil {
			return fmt.Errorf("model comparison: %w", err)
		}
		b.Comparison = *v
		return nil
	})
	g.Go(func() error {
		v, err := s.client.Spatial(ctx)
		if err != nil {
			return fmt.Errorf("spatial predictions: %w", err)
		}
		b.Spatial = *v
		return nil
	})
	g.Go(func() error {
		v, err := s.client.Clusters(ctx)
		if err != nil {
			return fmt.Errorf("cluster zones: %w", err)
		}
		b.Clusters = *v
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *predictionService) Trend(ctx context.Context, sampleID string) (*models.SampleTrend, error) {
	t, err := s.client.SampleTrend(ctx, sampleID)
	if err != nil {
		return nil, fmt.Errorf("trend of %s: %w", sampleID, err)
	}
	return t, nil
}
