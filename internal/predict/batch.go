package predict

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// runBatch iterates a batch sequentially and in order. Per-item failures are
// isolated: every failed item yields an inline error record carrying the
// partial input echo, so len(Predictions) == TotalPredictions and
// Successful + Failed == Total for every batch kind.
func runBatch[T any](
	method, batchName string,
	reqs []T,
	predictFn func(T) (Result, error),
	errEcho func(T) (cowID string, echo map[string]float64),
	now func() time.Time,
) BatchResult {
	start := time.Now()
	batchID := uuid.New().String()

	predictions := make([]Result, 0, len(reqs))
	successful, failed := 0, 0

	for _, req := range reqs {
		res, err := predictFn(req)
		if err != nil {
			log.Error().Err(err).Str("batch_id", batchID).Msg("batch item failed")
			failed++

			cowID, echo := errEcho(req)
			predictions = append(predictions, Result{
				PredictionID:  uuid.New().String(),
				CowID:         cowID,
				InputFeatures: echo,
				Error:         true,
				ErrorMessage:  err.Error(),
			})
			continue
		}

		successful++
		predictions = append(predictions, res)
	}

	totalMS := round2(float64(time.Since(start).Microseconds()) / 1000.0)
	var avgMS float64
	if len(reqs) > 0 {
		avgMS = round2(totalMS / float64(len(reqs)))
	}

	return BatchResult{
		BatchID:                 batchID,
		BatchName:               batchName,
		PredictionMethod:        method,
		TotalPredictions:        len(reqs),
		SuccessfulPredictions:   successful,
		FailedPredictions:       failed,
		Predictions:             predictions,
		BatchCreatedAt:          now().Format(time.RFC3339),
		TotalProcessingTimeMS:   totalMS,
		AverageProcessingTimeMS: avgMS,
	}
}

// PredictYieldBatch runs a milk-yield prediction for every item in order.
func (s *Service) PredictYieldBatch(reqs []YieldRequest, batchName string) BatchResult {
	s.recordBatch(KindYield, len(reqs))
	return runBatch("", batchName, reqs, s.PredictYield,
		func(r YieldRequest) (string, map[string]float64) {
			return r.CowID, nil
		}, s.now)
}

// PredictMastitisBatch runs a mastitis classification for every item in order.
func (s *Service) PredictMastitisBatch(reqs []MastitisRequest, batchName string) BatchResult {
	s.recordBatch(KindMastitis, len(reqs))
	return runBatch("", batchName, reqs, s.PredictMastitis,
		func(r MastitisRequest) (string, map[string]float64) {
			return r.CowID, nil
		}, s.now)
}

// PredictSCCBatch runs an SCC threshold classification for every item in order.
func (s *Service) PredictSCCBatch(reqs []SCCRequest, batchName string) BatchResult {
	s.recordBatch(KindSCC, len(reqs))
	return runBatch("somatic_cell_count_batch", batchName, reqs, s.PredictMastitisBySCC,
		func(r SCCRequest) (string, map[string]float64) {
			return r.CowID, map[string]float64{"somatic_cell_count": r.SomaticCellCount}
		}, s.now)
}

func (s *Service) recordBatch(kind string, items int) {
	if s.metrics == nil {
		return
	}
	s.metrics.BatchRequestsInc(kind)
	s.metrics.BatchItemsAdd(float64(items))
}
