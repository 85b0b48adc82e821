// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package blackbody

import (
	"math"
)

const (
	lookupStep = 100.0
	lookupMax  = 15000.0
)

// A table based strategy. Temperatures are rounded to the nearest 100K,
// ties to even, and looked up in a precomputed table covering 0..15000K.
type Lookup struct {
	domain Domain
}

var _ Strategy = (*Lookup)(nil) // Compile time assertion: type implements the interface

func (s *Lookup) Kind() Kind     { return KindLookup }
func (s *Lookup) Domain() Domain { return s.domain }

func (s *Lookup) RGB(kelvin float64) (RGB, error) {
	if !s.domain.Contains(kelvin) {
		return RGB{}, outOfRange(kelvin, s.domain)
	}
	index := math.RoundToEven(kelvin / lookupStep)
	if !(index >= 0 && index < float64(len(lookupTable))) {
		return RGB{}, outOfRange(kelvin, s.domain)
	}
	e := lookupTable[int(index)]
	return RGB{e[0], e[1], e[2]}, nil
}

// Blackbody colors at 0, 100, ... 15000 Kelvin, normalized to 255
var lookupTable = [151][3]float64{
	{255, 0, 0},                  // 0
	{255, 0, 0},                  // 100
	{255, 0, 0},                  // 200
	{255, 0, 0},                  // 300
	{255, 0, 0},                  // 400
	{255, 0, 0},                  // 500
	{255, 0, 0},                  // 600
	{255, 30.707195158993482, 0}, // 700
	{255, 62.84631865698403, 0},  // 800
	{255, 82.38814221954293, 0},  // 900
	{255, 97.57751272824949, 0},  // 1000
	{255, 110.27819077186376, 0}, // 1100
	{255, 121.27772322322069, 0}, // 1200
	{255, 131.00195842275375, 0}, // 1300
	{255, 139.71586404984836, 0.11050373094119768}, // 1400
	{255, 147.59994831496417, 18.644786247062925},  // 1500
	{255, 154.78513693782884, 30.60807369940283},   // 1600
	{255, 161.37080136250643, 40.77624591188531},   // 1700
	{255, 167.43497226726078, 50.10731982367809},   // 1800
	{255, 173.0405484608862, 58.91408920062816},    // 1900
	{255, 178.23928830746172, 67.33215692226692},   // 2000
	{255, 183.07449467341854, 75.42990482515403},   // 2100
	{255, 187.5828900300578, 83.2456894518547},     // 2200
	{255, 191.79596786796577, 90.80309972758808},   // 2300
	{255, 195.74099313122167, 98.11800548192707},   // 2400
	{255, 199.4417600895473, 105.20207706752826},   // 2500
	{255, 202.91917804363274, 112.06463602929267},  // 2600
	{255, 206.19173192828404, 118.71366101565178},  // 2700
	{255, 209.2758500985908, 125.15634478698563},   // 2800
	{255, 212.18620195725364, 131.39940437782826},  // 2900
	{255, 214.9359416544312, 137.44925243526643},   // 3000
	{255, 217.53690970629796, 143.31208953713326},  // 3100
	{255, 219.99980132690428, 148.99395145762813},  // 3200
	{255, 222.33430810591696, 154.50073101398092},  // 3300
	{255, 224.54923810751725, 159.83818595519116},  // 3400
	{255, 226.65261832658052, 165.01193959663362},  // 3500
	{255, 228.65178259284136, 170.02747809396328},  // 3600
	{255, 230.55344737767754, 174.89014657445878},  // 3700
	{255, 232.3637774733693, 179.60514534222736},   // 3800
	{255, 234.08844314068605, 184.17752677696132},  // 3900
	{255, 235.73267002876855, 188.612193194808},    // 4000
	{255, 237.3012829410251, 192.91389573834647},   // 4100
	{255, 238.79874433730635, 197.0872342520505},   // 4200
	{255, 240.22918831510043, 201.13665804392585},  // 4300
	{255, 241.59645069285713, 205.06646741095014},  // 4400
	{255, 242.9040957207876, 208.88081580173264},   // 4500
	{255, 244.1554398640468, 212.5837124959702},    // 4600
	{255, 245.35357303659254, 216.17902569159276},  // 4700
	{255, 246.50137760857132, 219.67048590390402},  // 4800
	{255, 247.60154546366704, 223.0616895946868},   // 4900
	{255, 248.65659334385973, 226.35610296219053},  // 5000
	{255, 249.66887668612821, 229.5570658346544},   // 5100
	{255, 250.64060212776877, 232.66779562033054},  // 5200
	{255, 251.57383883332682, 235.69139127587437},  // 5300
	{255, 252.47052877597042, 238.63083726250522},  // 5400
	{255, 253.33249608890205, 241.48900746566997},  // 5500
	{255, 254.16145558764882, 244.26866905919266},  // 5600
	{255, 254.95902055140263, 246.9724862992151},   // 5700
	{254.2753552826387, 255, 248.89371634285885},   // 5800
	{253.54242494781823, 255, 250.7213949411821},   // 5900
	{252.84034354247356, 255, 252.49732151851293},  // 6000
	{252.16738962434155, 255, 254.22349337372583},  // 6100
	{250.6355871967779, 254.1013696493253, 255},    // 6200
	{248.43374496729214, 252.49086341010553, 255},  // 6300
	{246.32601853230557, 250.9435715487046, 255},   // 6400
	{244.3068069034624, 249.45598408533232, 255},   // 6500
	{242.3709347025114, 248.02484400407218, 255},   // 6600
	{240.51361283542045, 246.64712476575556, 255},  // 6700
	{238.73040343768372, 245.3200101952792, 255},   // 6800
	{237.01718855947016, 244.04087645426077, 255},  // 6900
	{235.37014213345006, 242.80727584959166, 255},  // 7000
	{233.78570483088797, 241.61692226209115, 255},  // 7100
	{232.26056146481875, 240.4676780080743, 255},   // 7200
	{230.79162064441437, 239.35754197105797, 255},  // 7300
	{229.3759964232882, 238.2846388617041, 255},    // 7400
	{228.01099171753992, 237.24720948201144, 255},  // 7500
	{226.694083297704, 236.24360188516292, 255},    // 7600
	{225.42290818314427, 235.27226333571403, 255},  // 7700
	{224.19525128846723, 234.33173298628398, 255},  // 7800
	{223.00903418968545, 233.42063519684277, 255},  // 7900
	{221.862304893604, 232.53767343132546, 255},    // 8000
	{220.75322850755964, 231.68162467380702, 255},  // 8100
	{219.6800787185275, 230.8513343130223, 255},    // 8200
	{218.64123000097175, 230.04571144973636, 255},  // 8300
	{217.635150481867, 229.26372458647973, 255},    // 8400
	{216.66039539924398, 228.50439766356135, 255},  // 8500
	{215.71560109756032, 227.76680640913128, 255},  // 8600
	{214.7994795093067, 227.05007497447355, 255},   // 8700
	{213.91081307763326, 226.3533728287053, 255},   // 8800
	{213.04845007952545, 225.67591188971792, 255},  // 8900
	{212.21130031324526, 225.01694387054022, 255},  // 9000
	{211.39833111746267, 224.37575782238872, 255},  // 9100
	{210.60856369278875, 223.75167785752168, 255},  // 9200
	{209.84106969933717, 223.14406103665712, 255},  // 9300
	{209.0949681065388, 222.55229540718528, 255},   // 9400
	{208.36942227374226, 221.97579817971243, 255},  // 9500
	{207.6636372421942, 221.4140140316449, 255},    // 9600
	{206.976857220837, 220.86641352756791, 255},    // 9700
	{206.30836325000283, 220.3324916471156, 255},   // 9800
	{205.65747102856437, 219.81176641186545, 255},  // 9900
	{205.02352889141898, 219.3037776035543, 255},   // 10000
	{204.40591592537618, 218.80808556658914, 255},  // 10100
	{203.80404021258323, 218.3242700884425, 255},   // 10200
	{203.21733719158814, 217.85192935207598, 255},  // 10300
	{202.64526812700373, 217.3906789550351, 255},   // 10400
	{202.08731867952264, 216.94015099031103, 255},  // 10500
	{201.5429975687355, 216.49999318447584, 255},   // 10600
	{201.0118353218505, 216.06986808896923, 255},   // 10700
	{200.49338310198542, 215.64945232074794, 255},  // 10800
	{199.98721161023272, 215.23843584882223, 255},  // 10900
	{199.492910056175, 214.83652132347567, 255},    // 11000
	{199.0100851919579, 214.44342344522153, 255},   // 11100
	{198.5383604054254, 214.05886837078003, 255},   // 11200
	{198.07737486817993, 213.6825931535697, 255},   // 11300
	{197.626782734753, 213.3143452164002, 255},     // 11400
	{197.18625238937673, 212.95388185422908, 255},  // 11500
	{196.75546573711335, 212.60096976500648, 255},  // 11600
	{196.33411753635022, 212.2553846067787, 255},   // 11700
	{195.9219147698959, 211.9169105793561, 255},    // 11800
	{195.51857605212035, 211.58534002897636, 255},  // 11900
	{195.12383106977464, 211.26047307450602, 255},  // 12000
	{194.7374200542964, 210.9421172538295, 255},    // 12100
	{194.35909328357377, 210.63008718916896, 255},  // 12200
	{193.988610611283, 210.32420427016888, 255},    // 12300
	{193.62574102205264, 210.02429635366, 255},     // 12400
	{193.27026221083278, 209.73019747909075, 255},  // 12500
	{192.92196018495915, 209.44174759868685, 255},  // 12600
	{192.58062888751397, 209.15879232146168, 255},  // 12700
	{192.246069840674, 208.8811826702582, 255},     // 12800
	{191.9180918078358, 208.60877485106138, 255},   // 12900
	{191.59651047338357, 208.3414300338663, 255},   // 13000
	{191.28114813904722, 208.07901414443802, 255},  // 13100
	{190.97183343586528, 207.82139766633978, 255},  // 13200
	{190.66840105083475, 207.56845545264727, 255},  // 13300
	{190.37069146739282, 207.32006654680558, 255},  // 13400
	{190.07855071892533, 207.07611401211636, 255},  // 13500
	{189.7918301545582, 206.83648476937975, 255},   // 13600
	{189.51038621652717, 206.6010694422414, 255},   // 13700
	{189.2340802284738, 206.36976220982461, 255},   // 13800
	{188.96277819405177, 206.14246066625438, 255},  // 13900
	{188.6963506052702, 205.9190656867019, 255},    // 14000
	{188.43467226003446, 205.69948129960198, 255},  // 14100
	{188.1776220883793, 205.48361456471866, 255},   // 14200
	{187.9250829869209, 205.27137545674762, 255},   // 14300
	{187.67694166108183, 205.0626767541714, 255},   // 14400
	{187.43308847467245, 204.85743393309167, 255},  // 14500
	{187.19341730643555, 204.6555650657848, 255},   // 14600
	{186.95782541318457, 204.45699072373785, 255},  // 14700
	{186.72621329918988, 204.26163388493944, 255},  // 14800
	{186.49848459148575, 204.06941984520992, 255},  // 14900
	{186.27454592079093, 203.88027613336965, 255},  // 15000
}
