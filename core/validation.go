// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"strings"
)

// ValidateDiscoveryRequest validates a DiscoveryRequest according to domain rules.
//
// Validation rules:
//   - CompanyName must not be empty after trimming
//   - MaxResults must be in [1, 200]
//   - MinSimilarityScore must be in [0, 1]
//   - MinEmployees must not exceed MaxEmployees when both are set
//
// NOT validated (phase toggles and filters are free-form):
//   - UseVectorStore / UseSearchTools / Parallel
//   - Industry, business model and location filters
func ValidateDiscoveryRequest(req *DiscoveryRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidRequest)
	}

	if strings.TrimSpace(req.CompanyName) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, ErrEmptyCompanyName)
	}

	if req.MaxResults < 1 || req.MaxResults > MaxResultsLimit {
		return fmt.Errorf("%w: %w (got %d)", ErrInvalidRequest, ErrMaxResultsOutOfRange, req.MaxResults)
	}

	if req.MinSimilarityScore < 0 || req.MinSimilarityScore > 1 {
		return fmt.Errorf("%w: %w (got %g)", ErrInvalidRequest, ErrMinSimilarityOutOfRange, req.MinSimilarityScore)
	}

	if req.MinEmployees > 0 && req.MaxEmployees > 0 && req.MinEmployees > req.MaxEmployees {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, ErrEmployeeRangeInverted)
	}

	return nil
}
