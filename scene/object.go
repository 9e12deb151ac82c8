package scene

import (
	"iter"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Object is a mesh placed in the world. Rotation is not supported; the
// model matrix is translate × scale.
type Object struct {
	ID          uuid.UUID
	Name        string
	Mesh        string
	Material    *Material
	Translation mgl32.Vec3
	Scale       mgl32.Vec3
}

func NewObject(name, mesh string, mat *Material) *Object {
	return &Object{
		ID:       uuid.New(),
		Name:     name,
		Mesh:     mesh,
		Material: mat,
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

func (o *Object) At(t mgl32.Vec3) *Object {
	o.Translation = t
	return o
}

func (o *Object) Scaled(s mgl32.Vec3) *Object {
	o.Scale = s
	return o
}

func (o *Object) Tags() Tags {
	if o.Material == nil {
		return 0
	}
	return o.Material.Tags
}

func (o *Object) ModelToWorld() mgl32.Mat4 {
	return mgl32.Translate3D(o.Translation[0], o.Translation[1], o.Translation[2]).
		Mul4(mgl32.Scale3D(o.Scale[0], o.Scale[1], o.Scale[2]))
}

// ObjectView is a read-only window on an object list that can hide
// objects without touching the list.
type ObjectView struct {
	objects []*Object
	hidden  []*Object
}

func NewObjectView(objects []*Object) ObjectView {
	return ObjectView{objects: objects}
}

// Without returns a view that also hides o.
func (v ObjectView) Without(o *Object) ObjectView {
	return ObjectView{objects: v.objects, hidden: append(slices.Clip(v.hidden), o)}
}

func (v ObjectView) All() iter.Seq[*Object] {
	return func(yield func(*Object) bool) {
		for _, o := range v.objects {
			if slices.Contains(v.hidden, o) {
				continue
			}
			if !yield(o) {
				return
			}
		}
	}
}

func (v ObjectView) Len() int {
	n := 0
	for range v.All() {
		n++
	}
	return n
}
