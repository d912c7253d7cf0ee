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

import "errors"

// Domain validation errors
var (
	// ErrInvalidRequest indicates a DiscoveryRequest failed validation.
	ErrInvalidRequest = errors.New("invalid discovery request")

	// ErrEmptyCompanyName indicates the CompanyName field is empty.
	ErrEmptyCompanyName = errors.New("company name cannot be empty")

	// ErrMaxResultsOutOfRange indicates MaxResults is outside [1, 200].
	ErrMaxResultsOutOfRange = errors.New("max results must be between 1 and 200")

	// ErrMinSimilarityOutOfRange indicates MinSimilarityScore is outside [0, 1].
	ErrMinSimilarityOutOfRange = errors.New("min similarity score must be between 0 and 1")

	// ErrEmployeeRangeInverted indicates MinEmployees exceeds MaxEmployees.
	ErrEmployeeRangeInverted = errors.New("min employees cannot exceed max employees")
)
