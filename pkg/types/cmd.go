/*
 *   Copyright 2023 Martin Proffitt <mproffitt@choclab.net>
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 */
package types

// Output formats understood by the command line
const (
	OutputText   = "text"
	OutputJSON   = "json"
	OutputYAML   = "yaml"
	OutputSecret = "secret"
)

// GlobalCmd holds the flags shared by every command
type GlobalCmd struct {
	Config     string
	Debug      bool
	Quiet      bool
	Iterations int
	Hash       string
	Encoder    string
	SecretEnv  string
}

// EncryptCmd holds the flags for the encrypt command
type EncryptCmd struct {
	JSON      bool
	Append    []string
	Output    string
	Name      string
	Key       string
	Namespace string
}

// DecryptCmd holds the flags for the decrypt command
type DecryptCmd struct {
	Output string
}

// RandomCmd holds the flags for the random command
type RandomCmd struct {
	Bits int
}
