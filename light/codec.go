// SPDX-License-Identifier: GPL-2.0-or-later

package light

import (
	"log"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"

	"lightmix/color"
	"lightmix/math/vec"
)

// ErrMalformed is returned when stored lights cannot be parsed, most often
// because the data ends in the middle of a field.
var ErrMalformed = errors.New("malformed light record")

func field(name string, num int32, typ descriptorpb.FieldDescriptorProto_Type, msg string) *descriptorpb.FieldDescriptorProto {
	f := &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(num),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   typ.Enum(),
	}
	if msg != "" {
		f.TypeName = proto.String(".lightmix.light." + msg)
	}
	return f
}

func repeated(f *descriptorpb.FieldDescriptorProto) *descriptorpb.FieldDescriptorProto {
	f.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
	return f
}

func message(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{Name: proto.String(name), Field: fields}
}

const (
	tFloat   = descriptorpb.FieldDescriptorProto_TYPE_FLOAT
	tFixed32 = descriptorpb.FieldDescriptorProto_TYPE_FIXED32
	tUint32  = descriptorpb.FieldDescriptorProto_TYPE_UINT32
	tString  = descriptorpb.FieldDescriptorProto_TYPE_STRING
	tBytes   = descriptorpb.FieldDescriptorProto_TYPE_BYTES
	tMessage = descriptorpb.FieldDescriptorProto_TYPE_MESSAGE
)

// lightProto is the schema of stored lights:
//
//	message Vec3 { float x = 1; float y = 2; float z = 3; }
//	message Animation { string pattern = 1; float fps = 2; string easing = 3; }
//	message Source {
//	  bytes id = 1; Vec3 position = 2; Vec3 angles = 3;
//	  fixed32 color = 4; fixed32 ambient = 5;
//	  float hot_spot = 6; float fall_off = 7; uint32 flags = 8;
//	  Animation animation = 9; Animation ambient_animation = 10;
//	}
//	message LightSet { repeated Source lights = 1; }
var lightProto = &descriptorpb.FileDescriptorProto{
	Name:    proto.String("lightmix/light.proto"),
	Package: proto.String("lightmix.light"),
	Syntax:  proto.String("proto3"),
	MessageType: []*descriptorpb.DescriptorProto{
		message("Vec3",
			field("x", 1, tFloat, ""),
			field("y", 2, tFloat, ""),
			field("z", 3, tFloat, "")),
		message("Animation",
			field("pattern", 1, tString, ""),
			field("fps", 2, tFloat, ""),
			field("easing", 3, tString, "")),
		message("Source",
			field("id", 1, tBytes, ""),
			field("position", 2, tMessage, "Vec3"),
			field("angles", 3, tMessage, "Vec3"),
			field("color", 4, tFixed32, ""),
			field("ambient", 5, tFixed32, ""),
			field("hot_spot", 6, tFloat, ""),
			field("fall_off", 7, tFloat, ""),
			field("flags", 8, tUint32, ""),
			field("animation", 9, tMessage, "Animation"),
			field("ambient_animation", 10, tMessage, "Animation")),
		message("LightSet",
			repeated(field("lights", 1, tMessage, "Source"))),
	},
}

var (
	vecDesc       protoreflect.MessageDescriptor
	animationDesc protoreflect.MessageDescriptor
	sourceDesc    protoreflect.MessageDescriptor
	lightSetDesc  protoreflect.MessageDescriptor
)

func init() {
	fd, err := protodesc.NewFile(lightProto, nil)
	if err != nil {
		log.Panicf("light schema: %v", err)
	}
	msgs := fd.Messages()
	vecDesc = msgs.ByName("Vec3")
	animationDesc = msgs.ByName("Animation")
	sourceDesc = msgs.ByName("Source")
	lightSetDesc = msgs.ByName("LightSet")
}

func fieldOf(m protoreflect.Message, name protoreflect.Name) protoreflect.FieldDescriptor {
	return m.Descriptor().Fields().ByName(name)
}

func setFloat(m protoreflect.Message, name protoreflect.Name, f float32) {
	m.Set(fieldOf(m, name), protoreflect.ValueOfFloat32(f))
}

func getFloat(m protoreflect.Message, name protoreflect.Name) float32 {
	return float32(m.Get(fieldOf(m, name)).Float())
}

func setVec(m protoreflect.Message, name protoreflect.Name, v vec.Vec3) {
	pv := m.Mutable(fieldOf(m, name)).Message()
	setFloat(pv, "x", v.X)
	setFloat(pv, "y", v.Y)
	setFloat(pv, "z", v.Z)
}

func getVec(m protoreflect.Message, name protoreflect.Name) vec.Vec3 {
	pv := m.Get(fieldOf(m, name)).Message()
	return vec.Vec3{X: getFloat(pv, "x"), Y: getFloat(pv, "y"), Z: getFloat(pv, "z")}
}

func setAnimation(m protoreflect.Message, name protoreflect.Name, a *Animation) {
	if a == nil {
		return
	}
	pa := m.Mutable(fieldOf(m, name)).Message()
	pa.Set(fieldOf(pa, "pattern"), protoreflect.ValueOfString(a.Pattern))
	setFloat(pa, "fps", a.FPS)
	pa.Set(fieldOf(pa, "easing"), protoreflect.ValueOfString(a.Easing))
}

func getAnimation(m protoreflect.Message, name protoreflect.Name) (*Animation, error) {
	fd := fieldOf(m, name)
	if !m.Has(fd) {
		return nil, nil
	}
	pa := m.Get(fd).Message()
	return NewAnimation(
		pa.Get(fieldOf(pa, "pattern")).String(),
		getFloat(pa, "fps"),
		pa.Get(fieldOf(pa, "easing")).String())
}

func toProto(s *Source) *dynamicpb.Message {
	m := dynamicpb.NewMessage(sourceDesc)
	m.Set(fieldOf(m, "id"), protoreflect.ValueOfBytes(s.ID[:]))
	setVec(m, "position", s.Position)
	setVec(m, "angles", s.Angles)
	m.Set(fieldOf(m, "color"), protoreflect.ValueOfUint32(uint32(s.Color)))
	m.Set(fieldOf(m, "ambient"), protoreflect.ValueOfUint32(uint32(s.Ambient)))
	setFloat(m, "hot_spot", s.HotSpot)
	setFloat(m, "fall_off", s.FallOff)
	m.Set(fieldOf(m, "flags"), protoreflect.ValueOfUint32(uint32(s.Flags)))
	setAnimation(m, "animation", s.Animation)
	setAnimation(m, "ambient_animation", s.AmbientAnimation)
	return m
}

func fromProto(m protoreflect.Message) (*Source, error) {
	s := &Source{
		Position: getVec(m, "position"),
		Angles:   getVec(m, "angles"),
		Color:    color.Color(m.Get(fieldOf(m, "color")).Uint()),
		Ambient:  color.Color(m.Get(fieldOf(m, "ambient")).Uint()),
		HotSpot:  getFloat(m, "hot_spot"),
		FallOff:  getFloat(m, "fall_off"),
		Flags:    Flags(m.Get(fieldOf(m, "flags")).Uint()),
	}
	if id := fieldOf(m, "id"); m.Has(id) {
		var err error
		if s.ID, err = uuid.FromBytes(m.Get(id).Bytes()); err != nil {
			return nil, errors.Wrap(err, "light id")
		}
	}
	var err error
	if s.Animation, err = getAnimation(m, "animation"); err != nil {
		return nil, errors.Wrap(err, "light animation")
	}
	if s.AmbientAnimation, err = getAnimation(m, "ambient_animation"); err != nil {
		return nil, errors.Wrap(err, "ambient animation")
	}
	return s, nil
}

func marshal(m proto.Message) []byte {
	b, err := proto.Marshal(m)
	if err != nil {
		// every field is set from a valid Go value
		log.Panicf("marshal light: %v", err)
	}
	return b
}

// Marshal encodes the persistent fields of s as a protobuf Source message.
// Animations are stored by pattern, rate and easing, not by their progress.
func Marshal(s *Source) []byte {
	return marshal(toProto(s))
}

// Unmarshal decodes a Source written by Marshal. Unknown fields are skipped.
func Unmarshal(b []byte) (*Source, error) {
	m := dynamicpb.NewMessage(sourceDesc)
	if err := proto.Unmarshal(b, m); err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}
	return fromProto(m)
}

// MarshalAll encodes a set of lights as a LightSet message.
func MarshalAll(ls []*Source) []byte {
	m := dynamicpb.NewMessage(lightSetDesc)
	list := m.Mutable(fieldOf(m, "lights")).List()
	for _, s := range ls {
		list.Append(protoreflect.ValueOfMessage(toProto(s)))
	}
	return marshal(m)
}

// UnmarshalAll decodes lights written by MarshalAll.
func UnmarshalAll(b []byte) ([]*Source, error) {
	m := dynamicpb.NewMessage(lightSetDesc)
	if err := proto.Unmarshal(b, m); err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}
	list := m.Get(fieldOf(m, "lights")).List()
	ls := make([]*Source, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		s, err := fromProto(list.Get(i).Message())
		if err != nil {
			return nil, errors.Wrapf(err, "light %d", i)
		}
		ls = append(ls, s)
	}
	return ls, nil
}
