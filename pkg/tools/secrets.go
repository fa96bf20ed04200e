/*
 *   Copyright 2022 Martin Proffitt <mproffitt@choclab.net>
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
package tools

import (
	"fmt"
	"os"

	"r00t2.io/gokwallet"
	"r00t2.io/gosecret"
)

// Secrets are kept under Passwords/sealer in either store
const (
	storeFolder = "Passwords"
	storeMap    = "sealer"
	storeApp    = "Sealer"
)

// Gets a secret value from kwallet
func getSecretFromKWallet(what string) (string, error) {
	if os.Getenv("USE_LIBSECRET") != "" {
		return "", fmt.Errorf("skipping kwallet")
	}

	var (
		err error
		r   *gokwallet.RecurseOpts = gokwallet.DefaultRecurseOpts
		wm  *gokwallet.WalletManager
	)

	r.AllWalletItems = true
	if wm, err = gokwallet.NewWalletManager(r, storeApp); err != nil {
		return "", err
	}

	for _, v := range wm.Wallets {
		if f, ok := v.Folders[storeFolder]; ok {
			if m, ok := f.Maps[storeMap]; ok {
				if p, ok := m.Value[what]; ok {
					return p, nil
				}
			}
		}
	}
	return "", nil
}

// Gets a secret from libsecrets
func getSecretFromSecretsService(what string) (string, error) {
	if os.Getenv("USE_KWALLET") != "" {
		return "", nil
	}

	var (
		err           error
		service       *gosecret.Service
		unlockedItems []*gosecret.Item
	)

	if service, err = gosecret.NewService(); err != nil {
		return "", err
	}
	defer service.Close()

	service.Legacy = true
	if unlockedItems, _, err = service.SearchItems(map[string]string{
		"Path": "/" + storeFolder + "/" + storeMap,
	}); err != nil {
		return "", err
	}

	for _, item := range unlockedItems {
		attributes, _ := item.Attributes()
		if value, ok := attributes[what]; ok {
			return value, nil
		}
	}
	return "", nil
}
