package vger

// transformStack holds the local-to-world transforms of a frame. The bottom
// entry is the identity and cannot be popped.
type transformStack struct {
	stack []Matrix
}

func (s *transformStack) reset() {
	if s.stack == nil {
		s.stack = make([]Matrix, 0, 16)
	}
	s.stack = append(s.stack[:0], Identity())
}

func (s *transformStack) top() Matrix {
	if len(s.stack) == 0 {
		return Identity()
	}
	return s.stack[len(s.stack)-1]
}

// push composes m with the current top: m applies first.
func (s *transformStack) push(m Matrix) {
	s.stack = append(s.stack, s.top().Multiply(m))
}

func (s *transformStack) pop() bool {
	if len(s.stack) <= 1 {
		return false
	}
	s.stack = s.stack[:len(s.stack)-1]
	return true
}

// apply post-multiplies the top entry in place.
func (s *transformStack) apply(m Matrix) {
	if len(s.stack) == 0 {
		s.reset()
	}
	s.stack[len(s.stack)-1] = s.top().Multiply(m)
}

func (s *transformStack) depth() int {
	if len(s.stack) == 0 {
		return 0
	}
	return len(s.stack) - 1
}

// PushTransform saves the current transform and composes m onto it, so m
// applies to subsequent drawing before the enclosing transforms.
func (r *Renderer) PushTransform(m Matrix) {
	r.tx.push(m)
}

// PopTransform restores the transform saved by the matching PushTransform.
// It returns ErrTransformUnderflow when nothing is left to pop; the stack
// is unchanged in that case.
func (r *Renderer) PopTransform() error {
	if !r.tx.pop() {
		slogger().Warn("transform stack underflow", "frame", r.frame)
		return ErrTransformUnderflow
	}
	return nil
}

// Transform returns the current local-to-world transform.
func (r *Renderer) Transform() Matrix {
	return r.tx.top()
}

// TransformDepth returns the number of unmatched PushTransform calls.
func (r *Renderer) TransformDepth() int {
	return r.tx.depth()
}

// Translate moves the current coordinate space.
func (r *Renderer) Translate(x, y float64) {
	r.tx.apply(Translate(x, y))
}

// Scale scales the current coordinate space.
func (r *Renderer) Scale(x, y float64) {
	r.tx.apply(Scale(x, y))
}

// Rotate rotates the current coordinate space by angle radians.
func (r *Renderer) Rotate(angle float64) {
	r.tx.apply(Rotate(angle))
}
