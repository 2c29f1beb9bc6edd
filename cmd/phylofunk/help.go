// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package main

import "github.com/js-arias/command"

func init() {
	app.Add(colorKeyGuide)
	app.Add(metadataGuide)
	app.Add(projectsGuide)
	app.Add(treeFilesGuide)
}

var projectsGuide = &command.Command{
	Usage: "projects",
	Short: "about project files",
	Long: `
PhyloFunk commands can read their input from several files. To reduce the
burden of keeping track of many files, a single project file can be used to
hold the reference of the files used in the analysis. Most commands accept
the flag --project to read a project file. The best way to edit or view a
project file is by using the command 'phylofunk prj'.

A project file is a tab-delimited file with the following fields:

	- dataset  for the kind of file
	- path     for the path of the file

Here is an example file:

	# phylofunk project files
	dataset	path
	tree	global.nexus
	metadata	metadata.csv
	taxa	targets.csv
	params	context.tab
	keys	lineage-colors.tab

The valid file types are:

- Trees. Defined by the dataset keyword "tree". This file contains one or
  more trees, in newick or nexus format, or as a tab-delimited file of
  time-calibrated trees (with the extension ".tab" or ".tsv").
- Metadata. Defined by the dataset keyword "metadata". A CSV table with the
  values associated with each terminal. See 'phylofunk help metadata'.
- Target taxa. Defined by the dataset keyword "taxa". The taxa used as targets
  for a context extraction. It can be a tree file (the terminals of the tree
  are the targets) or a CSV table (the values of the index column are the
  targets).
- Context parameters. Defined by the dataset keyword "params". A
  tab-delimited file with the parameters of a context extraction. The
  recommended way to edit this file is by using the command
  'phylofunk params'.
- Color keys. Defined by the dataset keyword "keys". A tab-delimited file with
  the colors used to draw attribute values. See 'phylofunk help color-keys'.
	`,
}

var metadataGuide = &command.Command{
	Usage: "metadata",
	Short: "about metadata tables",
	Long: `
A metadata table is a comma-delimited (CSV) file with a header row. Each row
contains the values of a terminal of the tree. A column of the table is used
as the index, by default, the first column, but any other column can be
selected with the flag --id-column, or -c.

Here is an example file:

	sequence_name,lineage,country,sequence_hash
	England/MILK-9E05B3/2020,B.1.1.7,UK,aa12
	England/QEUH-13ADEA/2020,B.1.1.7,UK,aa12
	Wales/PHWC-2F3DE1/2020,B.1.177,UK,bf03

If a key is found more than once, the last row is kept, and the key is
reported as a duplicate. Commands with the flag --unique will fail if there
are duplicated keys.

The terminals of the tree are matched to the index of the table using the
tip label. A terminal label might be made of several fields, for example
"hCoV-19|England/MILK-9E05B3/2020|2020-09-20". In that case use the flag
--id-field, or -n, to select the field (starting from 0) that is used as the
key, and the flag --field-delimiter to set the string that separates the
fields (by default "|").
	`,
}

var treeFilesGuide = &command.Command{
	Usage: "tree-files",
	Short: "about tree files",
	Long: `
PhyloFunk reads and writes trees in three formats.

Newick format. A tree is written as nested parenthesis with terminal labels
and branch lengths, ending with a semicolon, for example:

	((A:0.1,B:0.2):0.05,C:0.3);

Nexus format. A tree block of a nexus file. Node attributes are stored as
comments after the node label, using the BEAST and FigTree convention:

	#NEXUS
	begin trees;
		tree tree_1 = [&R] ((A[&lineage="B.1"]:0.1,B:0.2):0.05,C:0.3);
	end;

The format of a newick or nexus file is detected from its content. If a file
starts with "#NEXUS" it is read as a nexus file, otherwise it is read as a
newick file.

Tab-delimited files of time-calibrated trees. Each node is a row of the file,
with the following columns:

	- tree     the name of the tree
	- node     the ID of the node
	- parent   the ID of the parent node (-1 for the root)
	- age      the age of the node in years
	- taxon    the name of the terminal

This format is used when the flag --tsv is set, or when a project tree file
has the extension ".tab" or ".tsv".
	`,
}

var colorKeyGuide = &command.Command{
	Usage: "color-keys",
	Short: "about color key files",
	Long: `
A color key file is used to define the colors used to draw the values of an
attribute, for example, the lineages of the terminals.

A color key file is a tab-delimited file with the following columns:

	- key    the attribute value
	- color  an RGB value, separated by commas

Here is an example file:

	key	color
	B.1.1.7	68,119,170
	B.1.177	204,187,68
	B.1.351	238,102,119

Values without a color in the key file will receive a color from the
iridescent color scheme of Paul Tol. The command 'phylofunk draw' with the
flag --key-out can be used to write the colors used in a drawing.
	`,
}
