package peekaboo

// debugGesture logs the camera state after an applied gesture.
// Only called when Stage.debug is true.
func (s *Stage) debugGesture(g Gesture) {
	pan := s.cam.Pan()
	logger.Debug("peekaboo: gesture",
		"kind", g.Kind,
		"scale", s.cam.Scale(),
		"panX", pan.X,
		"panY", pan.Y,
		"interacted", s.cam.Interacted(),
	)
}

// debugTap logs a tap's screen and world points and what it hit.
func (s *Stage) debugTap(sx, sy, wx, wy float64, id string, hit bool) {
	found, total := s.session.layer.Progress()
	logger.Debug("peekaboo: tap",
		"screenX", sx, "screenY", sy,
		"worldX", wx, "worldY", wy,
		"hit", hit, "target", id,
		"found", found, "total", total,
	)
}
