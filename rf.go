// Copyright 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: Apache-2.0
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

package amiibo

import "fmt"

// ISO14443-3A activation parameters of an NTAG215
const (
	ntag215ATQA0 = 0x44
	ntag215ATQA1 = 0x00
	ntag215SAK   = 0x00
)

// RFInterface is what an emulator presents over the air during anticollision.
type RFInterface struct {
	UID  [UIDLength]byte
	ATQA [2]byte
	SAK  byte
}

// ConfigureRFInterface derives the anticollision parameters from the tag's
// UID block. It must be re-run after every UID change.
func ConfigureRFInterface(tag *TagImage) (RFInterface, error) {
	var rf RFInterface
	if err := checkTag("ConfigureRFInterface", tag); err != nil {
		return rf, err
	}
	copy(rf.UID[:], tag.UID())
	rf.ATQA = [2]byte{ntag215ATQA0, ntag215ATQA1}
	rf.SAK = ntag215SAK
	return rf, nil
}

func (rf RFInterface) String() string {
	return fmt.Sprintf("UID=%X ATQA=%X SAK=%02X", rf.UID[:], rf.ATQA[:], rf.SAK)
}
