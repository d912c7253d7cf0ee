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


// Package store provides the vector-store abstraction for peerscope.
//
// It defines the VectorStore interface used by the discovery engine to
// resolve a target company by name and to run embedding similarity searches
// with optional metadata filters. The interface decouples the engine from
// any concrete backend; the store/badger sub-package provides a BadgerDB
// implementation suitable for both on-disk and in-memory (test) use.
//
// Public constructors return interface types to prevent accidental coupling
// to backend specifics.
package store
