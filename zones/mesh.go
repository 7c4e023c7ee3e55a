package zones

// MeshLandmarkCount is the number of points a MediaPipe Face Mesh pass returns
// (468, or 478 with refined iris points).
const MeshLandmarkCount = 468

// Zone geometry on the MediaPipe Face Mesh canonical model.
var (
	forehead = Leaf("forehead",
		10, 338, 297, 332, 284, 251, 389, 356, 454, 323, 361, 288, 397, 365, 379, 378, 400, 377,
		152, 148, 176, 149, 150, 136, 172, 58, 132, 93, 234, 127, 162, 21, 54, 103, 67, 109)
	noseBridge = Leaf("nose_bridge",
		6, 197, 195, 5, 4, 1, 19, 94, 2, 164, 0, 267, 269, 270, 409, 291)
	noseTip = Leaf("nose_tip",
		1, 2, 98, 327, 326, 97, 99, 240, 235, 219, 218, 237, 44, 1)

	leftCheek = Leaf("left_cheek",
		234, 93, 132, 58, 172, 136, 150, 149, 176, 148, 152, 377, 400, 378, 379, 365, 397, 288,
		361, 323, 454, 356, 389, 251, 284, 332, 297, 338, 10, 109, 67, 103, 54, 21, 162, 127)
	rightCheek = Leaf("right_cheek",
		454, 323, 361, 288, 397, 365, 379, 378, 400, 377, 152, 148, 176, 149, 150, 136, 172, 58,
		132, 93, 234, 127, 162, 21, 54, 103, 67, 109, 10, 338, 297, 332, 284, 251, 389, 356)

	leftEyeArea = Leaf("left_eye_area",
		226, 247, 30, 29, 27, 28, 56, 190, 243, 112, 26, 22, 23, 24, 110, 25)
	rightEyeArea = Leaf("right_eye_area",
		446, 467, 260, 259, 257, 258, 286, 414, 463, 341, 256, 252, 253, 254, 339, 255)

	leftUnderEye = Leaf("left_under_eye",
		111, 117, 118, 119, 120, 121, 128, 245, 193, 168, 417, 351, 419, 248, 281, 363, 360, 279,
		358, 429, 355, 463, 341, 256)
	rightUnderEye = Leaf("right_under_eye",
		340, 346, 347, 348, 349, 350, 357, 465, 412, 343, 277, 329, 330, 280, 352, 346)

	foreheadCenter = Leaf("forehead_center",
		10, 151, 9, 8, 168, 6, 197, 195, 5, 4)

	leftNasolabial = Leaf("left_nasolabial",
		205, 50, 117, 118, 101, 36, 206, 203, 129, 102, 48, 115)
	rightNasolabial = Leaf("right_nasolabial",
		425, 280, 346, 347, 330, 266, 426, 423, 358, 331, 278, 344)

	chin = Leaf("chin",
		152, 377, 400, 378, 379, 365, 397, 288, 435, 401, 366, 447, 264, 372, 383, 380, 381, 382,
		362, 398, 312, 311, 310, 415, 308, 324, 318, 402, 317, 14, 87, 178, 88, 95, 78, 191, 80,
		81, 82, 13, 312, 311, 310, 415)
)

// Default is the face mesh catalog
var Default = NewCatalog(
	[]Zone{
		Composite("t_zone", forehead, noseBridge, noseTip),
		leftCheek,
		rightCheek,
		leftEyeArea,
		rightEyeArea,
		leftUnderEye,
		rightUnderEye,
		foreheadCenter,
		leftNasolabial,
		rightNasolabial,
		chin,
	},
	[]ConcernZones{
		{"oiliness", []string{"t_zone"}},
		{"acne", []string{"t_zone", "left_cheek", "right_cheek", "chin"}},
		{"pore", []string{"t_zone", "left_cheek", "right_cheek"}},
		{"wrinkle", []string{"forehead_center", "left_eye_area", "right_eye_area", "left_nasolabial", "right_nasolabial"}},
		{"dark_circle", []string{"left_under_eye", "right_under_eye"}},
		{"eye_bag", []string{"left_under_eye", "right_under_eye"}},
		{"age_spot", []string{"left_cheek", "right_cheek", "forehead_center"}},
		{"redness", []string{"left_cheek", "right_cheek", "t_zone"}},
		{"firmness", []string{"left_cheek", "right_cheek", "chin"}},
		{"radiance", []string{"left_cheek", "right_cheek", "forehead_center"}},
		{"texture", []string{"left_cheek", "right_cheek", "forehead_center"}},
	},
	[]string{"left_cheek", "right_cheek"},
)
