package reportgen

// DefaultProjectTemplate builds the stock project-report template: an
// overview, technology stack, architecture, features, implementation,
// testing, conclusion, references and appendix, all parameterized with
// {{placeholder}} variables bound at render time.
func DefaultProjectTemplate() *Template {
	t := NewTemplate(
		"{{project_name}} - 项目报告",
		"本报告由系统自动生成，包含项目的基本信息和详细说明。",
		map[string]any{
			"作者":   "{{author}}",
			"日期":   "{{date}}",
			"项目ID": "{{project_id}}",
			"生成时间": "{{generation_date}}",
		},
	)

	t.AddSection(NewSection("项目概述",
		"本项目是一个{{project_type}}，主要目标是{{project_goal}}。\n"+
			"项目开始于{{project_start_date}}，计划完成于{{project_end_date}}。\n"+
			"\n"+
			"## 项目背景\n"+
			"\n"+
			"{{project_background}}\n", 1))

	t.AddSection(NewSection("技术栈",
		"本项目使用了以下技术栈：\n"+
			"\n"+
			"- 前端：{{frontend_tech}}\n"+
			"- 后端：{{backend_tech}}\n"+
			"- 数据库：{{database_tech}}\n"+
			"- 部署：{{deployment_tech}}\n"+
			"- 其他工具：{{other_tools}}\n", 1))

	t.AddSection(NewSection("系统架构",
		"{{system_architecture_description}}\n"+
			"\n"+
			"### 主要组件\n"+
			"\n"+
			"{{system_components}}\n"+
			"\n"+
			"### 数据流\n"+
			"\n"+
			"{{data_flow}}\n", 1))

	t.AddSection(NewSection("功能特性", "{{features_description}}", 1))

	t.AddSection(NewSection("实现细节",
		"{{implementation_details}}\n"+
			"\n"+
			"### 关键算法\n"+
			"\n"+
			"{{key_algorithms}}\n"+
			"\n"+
			"### 挑战与解决方案\n"+
			"\n"+
			"{{challenges_and_solutions}}\n", 1))

	t.AddSection(NewSection("测试与评估",
		"{{testing_methodology}}\n"+
			"\n"+
			"### 测试结果\n"+
			"\n"+
			"{{testing_results}}\n"+
			"\n"+
			"### 性能评估\n"+
			"\n"+
			"{{performance_evaluation}}\n", 1))

	t.AddSection(NewSection("结论与展望",
		"{{conclusion}}\n"+
			"\n"+
			"### 未来工作\n"+
			"\n"+
			"{{future_work}}\n", 1))

	t.AddSection(NewSection("参考文献", "{{references}}", 1))
	t.AddSection(NewSection("附录", "{{appendix}}", 1))

	return t
}
