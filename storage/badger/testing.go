// Copyright 2025 Archivista Contributors
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


package badger

import "github.com/archivista/archivista/storage"

// NewMemoryRepositories creates in-memory archive, index and job repositories
// for testing. Returns archiveRepo, indexRepo, jobRepo, backend, and error.
// Caller must close all repos and the backend when done.
func NewMemoryRepositories() (storage.ArchiveRepository, storage.IndexRepository, storage.JobRepository, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	archiveRepo, err := NewArchiveRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, nil, nil, err
	}

	indexRepo, err := NewIndexRepository(backend)
	if err != nil {
		archiveRepo.Close()
		backend.Close()
		return nil, nil, nil, nil, err
	}

	jobRepo, err := NewJobRepository(backend)
	if err != nil {
		indexRepo.Close()
		archiveRepo.Close()
		backend.Close()
		return nil, nil, nil, nil, err
	}

	return archiveRepo, indexRepo, jobRepo, backend, nil
}
