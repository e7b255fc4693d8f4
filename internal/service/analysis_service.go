package service

import (
	"github.com/sanctuarysound/api/internal/analysis"
	"github.com/sanctuarysound/api/internal/inference"
	"github.com/sanctuarysound/api/internal/model"
)

// AnalysisService compares console readings against recommendations and
// suggests channel mappings from labels.
type AnalysisService struct {
	tolerances analysis.Tolerances
}

func NewAnalysisService(tolerances analysis.Tolerances) *AnalysisService {
	return &AnalysisService{tolerances: tolerances}
}

// Analyze runs the delta engine. A missing SPL preference uses the default.
func (s *AnalysisService) Analyze(req model.AnalyzeRequest) (model.MixerAnalysis, error) {
	pref := model.DefaultSPLPreference()
	if req.SPL != nil {
		pref = *req.SPL
		if pref.Mode == "" {
			pref.Mode = model.SPLBalanced
		}
	}
	return s.tolerances.Analyze(req.Snapshot, req.Recommendation, req.Mapping, pref)
}

// Infer maps free-text channel labels to input sources.
func (s *AnalysisService) Infer(labels []string) model.InferResponse {
	return model.InferResponse{Results: inference.InferAll(labels)}
}
