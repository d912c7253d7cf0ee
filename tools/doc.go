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


// Package tools defines the pluggable search-tool contract and the registry
// that tracks per-tool health.
//
// Heterogeneous external integrations (company databases, web search APIs,
// directory scrapers) are unified behind the SearchTool interface. The
// Registry holds the registered tools together with an explicit two-state
// health model: a tool that fails is marked Unhealthy with its failure time
// and excluded from Available until HealthCheck or MarkHealthy flips it back.
//
// The registry is the only piece of state shared between concurrent search
// tasks; every method takes the registry mutex.
package tools
