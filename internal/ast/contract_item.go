package ast

type ContractItem interface {
	Node
	isContractItem()
}

func (*BadContractItem) isContractItem() {}

func (*DocComment) isContractItem() {}

func (*Comment) isContractItem() {}

func (*Module) isContractItem() {}

func (*Attribute) isContractItem() {}

func (*Use) isContractItem() {}

func (*Struct) isContractItem() {}

func (*Function) isContractItem() {}

func (*Modifier) isContractItem() {}
