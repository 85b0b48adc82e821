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

// First wavelength of the CIE table in nm
const cieFirstNM = 380.0

// Wavelength step of the CIE table in nm
const cieStepNM = 5.0

// CIE 1931 2° standard observer color matching functions xbar, ybar and zbar,
// sampled from 380nm to 780nm in 5nm steps
var cieTable = [81][3]float64{
	{0.0014, 0.0000, 0.0065}, // 380
	{0.0022, 0.0001, 0.0105}, // 385
	{0.0042, 0.0001, 0.0201}, // 390
	{0.0076, 0.0002, 0.0362}, // 395
	{0.0143, 0.0004, 0.0679}, // 400
	{0.0232, 0.0006, 0.1102}, // 405
	{0.0435, 0.0012, 0.2074}, // 410
	{0.0776, 0.0022, 0.3713}, // 415
	{0.1344, 0.0040, 0.6456}, // 420
	{0.2148, 0.0073, 1.0391}, // 425
	{0.2839, 0.0116, 1.3856}, // 430
	{0.3285, 0.0168, 1.6230}, // 435
	{0.3483, 0.0230, 1.7471}, // 440
	{0.3481, 0.0298, 1.7826}, // 445
	{0.3362, 0.0380, 1.7721}, // 450
	{0.3187, 0.0480, 1.7441}, // 455
	{0.2908, 0.0600, 1.6692}, // 460
	{0.2511, 0.0739, 1.5281}, // 465
	{0.1954, 0.0910, 1.2876}, // 470
	{0.1421, 0.1126, 1.0419}, // 475
	{0.0956, 0.1390, 0.8130}, // 480
	{0.0580, 0.1693, 0.6162}, // 485
	{0.0320, 0.2080, 0.4652}, // 490
	{0.0147, 0.2586, 0.3533}, // 495
	{0.0049, 0.3230, 0.2720}, // 500
	{0.0024, 0.4073, 0.2123}, // 505
	{0.0093, 0.5030, 0.1582}, // 510
	{0.0291, 0.6082, 0.1117}, // 515
	{0.0633, 0.7100, 0.0782}, // 520
	{0.1096, 0.7932, 0.0573}, // 525
	{0.1655, 0.8620, 0.0422}, // 530
	{0.2257, 0.9149, 0.0298}, // 535
	{0.2904, 0.9540, 0.0203}, // 540
	{0.3597, 0.9803, 0.0134}, // 545
	{0.4334, 0.9950, 0.0087}, // 550
	{0.5121, 1.0000, 0.0057}, // 555
	{0.5945, 0.9950, 0.0039}, // 560
	{0.6784, 0.9786, 0.0027}, // 565
	{0.7621, 0.9520, 0.0021}, // 570
	{0.8425, 0.9154, 0.0018}, // 575
	{0.9163, 0.8700, 0.0017}, // 580
	{0.9786, 0.8163, 0.0014}, // 585
	{1.0263, 0.7570, 0.0011}, // 590
	{1.0567, 0.6949, 0.0010}, // 595
	{1.0622, 0.6310, 0.0008}, // 600
	{1.0456, 0.5668, 0.0006}, // 605
	{1.0026, 0.5030, 0.0003}, // 610
	{0.9384, 0.4412, 0.0002}, // 615
	{0.8544, 0.3810, 0.0002}, // 620
	{0.7514, 0.3210, 0.0001}, // 625
	{0.6424, 0.2650, 0.0000}, // 630
	{0.5419, 0.2170, 0.0000}, // 635
	{0.4479, 0.1750, 0.0000}, // 640
	{0.3608, 0.1382, 0.0000}, // 645
	{0.2835, 0.1070, 0.0000}, // 650
	{0.2187, 0.0816, 0.0000}, // 655
	{0.1649, 0.0610, 0.0000}, // 660
	{0.1212, 0.0446, 0.0000}, // 665
	{0.0874, 0.0320, 0.0000}, // 670
	{0.0636, 0.0232, 0.0000}, // 675
	{0.0468, 0.0170, 0.0000}, // 680
	{0.0329, 0.0119, 0.0000}, // 685
	{0.0227, 0.0082, 0.0000}, // 690
	{0.0158, 0.0057, 0.0000}, // 695
	{0.0114, 0.0041, 0.0000}, // 700
	{0.0081, 0.0029, 0.0000}, // 705
	{0.0058, 0.0021, 0.0000}, // 710
	{0.0041, 0.0015, 0.0000}, // 715
	{0.0029, 0.0010, 0.0000}, // 720
	{0.0020, 0.0007, 0.0000}, // 725
	{0.0014, 0.0005, 0.0000}, // 730
	{0.0010, 0.0004, 0.0000}, // 735
	{0.0007, 0.0002, 0.0000}, // 740
	{0.0005, 0.0002, 0.0000}, // 745
	{0.0003, 0.0001, 0.0000}, // 750
	{0.0002, 0.0001, 0.0000}, // 755
	{0.0002, 0.0001, 0.0000}, // 760
	{0.0001, 0.0000, 0.0000}, // 765
	{0.0001, 0.0000, 0.0000}, // 770
	{0.0001, 0.0000, 0.0000}, // 775
	{0.0000, 0.0000, 0.0000}, // 780
}
