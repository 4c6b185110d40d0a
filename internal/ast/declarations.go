package ast

import (
	"bytes"
	"fmt"
	"strings"
)

// FieldDecl is one FIELDS section entry: `{ id; ; name; dataType[; propList] }`.
type FieldDecl struct {
	BaseNode
	ID         int
	Name       string
	DataType   *DataType
	Properties *PropertyList
	Triggers   []*Trigger
}

func (f *FieldDecl) String() string {
	return fmt.Sprintf("{%d;;%s;%s}", f.ID, f.Name, f.DataType)
}

// KeyDecl is one KEYS section entry: a list of field names plus a trailing
// property list (supplemented feature: KEYS entries carry the same
// property grammar as FIELDS, e.g. `Clustered=Yes`).
type KeyDecl struct {
	BaseNode
	Fields     []string
	Properties *PropertyList
}

func (k *KeyDecl) String() string {
	return fmt.Sprintf("{%s}", strings.Join(k.Fields, ","))
}

// FieldGroupDecl is one FIELDGROUPS section entry.
type FieldGroupDecl struct {
	BaseNode
	ID     int
	Name   string
	Fields []string
}

func (fg *FieldGroupDecl) String() string {
	return fmt.Sprintf("{%d;%s;%s}", fg.ID, fg.Name, strings.Join(fg.Fields, ","))
}

// VariableDecl is a VAR-block entry: `Name[@n] : [TEMPORARY] TypeExpr
// [SECURITYFILTERING(Ident)] ;`. IsConst is set for entries declared in a
// CONST block (supplemented feature: spec.md is silent on CONST, but C/AL
// source carries it ahead of VAR in CODE sections).
type VariableDecl struct {
	BaseNode
	Name        string
	DataType    *DataType
	IsTemporary bool
	IsConst     bool
	ConstValue  Expression // non-nil only when IsConst
	Dimensions  []int
}

func (v *VariableDecl) String() string {
	if v.IsConst {
		return fmt.Sprintf("%s : %s = %s", v.Name, v.DataType, v.ConstValue)
	}
	return fmt.Sprintf("%s : %s", v.Name, v.DataType)
}

// ParameterDecl is one entry in a procedure's parameter list. ByRef is set
// when the parameter is prefixed with VAR.
type ParameterDecl struct {
	BaseNode
	Name     string
	DataType *DataType
	ByRef    bool
}

func (p *ParameterDecl) String() string {
	if p.ByRef {
		return fmt.Sprintf("VAR %s : %s", p.Name, p.DataType)
	}
	return fmt.Sprintf("%s : %s", p.Name, p.DataType)
}

// ProcedureDecl is a PROCEDURE or LOCAL PROCEDURE declaration.
type ProcedureDecl struct {
	BaseNode
	Name       string
	IsLocal    bool
	Attributes []string
	Parameters []*ParameterDecl
	ReturnType *DataType
	Variables  []*VariableDecl
	Body       []Statement
}

func (p *ProcedureDecl) String() string {
	var b bytes.Buffer
	if p.IsLocal {
		b.WriteString("LOCAL ")
	}
	b.WriteString("PROCEDURE ")
	b.WriteString(p.Name)
	b.WriteString("(")
	params := make([]string, len(p.Parameters))
	for i, pr := range p.Parameters {
		params[i] = pr.String()
	}
	b.WriteString(strings.Join(params, ";"))
	b.WriteString(")")
	if p.ReturnType != nil {
		b.WriteString(" : ")
		b.WriteString(p.ReturnType.String())
	}
	return b.String()
}

// TriggerDecl is an object-level TRIGGER declaration (e.g. OnRun, OnOpenPage).
type TriggerDecl struct {
	BaseNode
	Name      string
	Variables []*VariableDecl
	Body      []Statement
}

func (t *TriggerDecl) String() string {
	return fmt.Sprintf("TRIGGER %s()", t.Name)
}

// CodeSection is the object's CODE section: its global declarations, its
// procedures, its object-level triggers, and an optional object-level
// BEGIN...END. body (OnRun for codeunits).
type CodeSection struct {
	BaseNode
	Variables  []*VariableDecl
	Procedures []*ProcedureDecl
	Triggers   []*TriggerDecl
	Body       []Statement
}

func (c *CodeSection) String() string {
	var b bytes.Buffer
	b.WriteString("CODE {\n")
	for _, v := range c.Variables {
		b.WriteString("  VAR ")
		b.WriteString(v.String())
		b.WriteString(";\n")
	}
	for _, p := range c.Procedures {
		b.WriteString("  ")
		b.WriteString(p.String())
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}
