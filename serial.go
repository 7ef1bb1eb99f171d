// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package agen

import "code.hybscloud.com/atomix"

// Serial identifies one traversal session. Serials increase
// monotonically across all sequences in the process; 0 means the
// iterator has not started a session yet.
type Serial = uint32

var sessionCounter atomix.Uint32

func nextSerial() Serial {
	return sessionCounter.Add(1)
}
