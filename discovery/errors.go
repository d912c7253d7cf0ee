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


package discovery

import "errors"

var (
	// ErrCircuitOpen is returned immediately when the circuit breaker is
	// Open; no phase executes.
	ErrCircuitOpen = errors.New("discovery circuit is open")

	// ErrRegistryRequired is returned when a nil tool registry is passed to
	// a constructor.
	ErrRegistryRequired = errors.New("tool registry is required")

	// ErrQueryGeneratorRequired is returned when a nil query generator is
	// passed to the executor constructor.
	ErrQueryGeneratorRequired = errors.New("query generator is required")

	// ErrExecutorRequired is returned when a nil executor is passed to the
	// orchestrator constructor.
	ErrExecutorRequired = errors.New("parallel search executor is required")
)
