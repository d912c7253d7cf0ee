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


// Package discovery implements the hybrid company-similarity engine.
//
// The Orchestrator type sequences five phases per request:
//   - Vector-store lookup of the target and its nearest stored neighbors
//   - Bounded-concurrency fan-out over the registered search tools
//   - A generic fallback search when the primary phases under-deliver
//   - Confidence scoring, vector corroboration boost and penalties
//   - Filtering, deterministic ranking and quality metrics
//
// Every phase is fault-isolated: collaborator failures degrade the result
// and are recorded as human-readable notes, never surfaced as errors. The
// whole call is gated by a circuit breaker that opens after repeated
// total failures.
package discovery
