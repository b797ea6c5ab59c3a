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

// Package config loads the settings of the ingestion tool.
//
// Settings are layered: built-in defaults, then an optional YAML file, then
// environment variables. The environment is passed in explicitly as an Env so
// loading never reads or mutates process state behind the caller's back.
//
// Example:
//
//	env, err := config.DotEnv(".env")
//	if err != nil {
//	    return err
//	}
//	settings, err := config.Load("lexora.yaml", env)
//	if err != nil {
//	    return err
//	}
//	if err := settings.Validate(true); err != nil {
//	    return err
//	}
package config
